package archive

import (
	"context"
	"strings"
	"testing"
)

func TestNoopMirrorDiscards(t *testing.T) {
	var m Mirror = NoopMirror{}
	if err := m.Upload(context.Background(), "playing.json", []byte("data")); err != nil {
		t.Errorf("NoopMirror.Upload returned %v, want nil", err)
	}
}

func TestS3MirrorObjectKeyGzipSuffix(t *testing.T) {
	plain := NewS3Mirror("bucket", "tourney1", false)
	if got := plain.objectKey("playing.json"); got != "tourney1/playing.json" {
		t.Errorf("objectKey = %q, want tourney1/playing.json", got)
	}

	gz := NewS3Mirror("bucket", "tourney1", true)
	if got := gz.objectKey("playing.json"); !strings.HasSuffix(got, ".gz") {
		t.Errorf("objectKey = %q, want .gz suffix when gzip enabled", got)
	}
}

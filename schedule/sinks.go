package schedule

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/openchessrunner/core/driver"
)

// appendSink appends text to the named file under the given sink's mutex,
// serializing writes to one sink per file.
func (s *Scheduler) appendSink(mu *sync.Mutex, path, text string) {
	if path == "" {
		return
	}
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("schedule: open sink %s: %v", path, err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		log.Printf("schedule: write sink %s: %v", path, err)
	}
}

// sinkContents reads back a sink file for archive mirroring.
func sinkContents(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// logEngineMessage is wired as every Driver's MessageLogger. It serializes
// engine-log writes under their own mutex and optionally timestamps each
// line when the engine log's show-time option is set.
func (s *Scheduler) logEngineMessage(appName, msg string, kind driver.LogKind) {
	if !s.cfg.EngineLog.Enabled {
		return
	}

	prefix := appName
	if kind == driver.LogSystem {
		prefix = "system"
	}

	line := prefix + ": " + msg + "\n"
	if s.cfg.EngineLog.ShowTime {
		line = time.Now().Format(time.RFC3339) + " " + line
	}

	s.appendSink(&s.engineMu, s.cfg.EngineLog.Path, line)
}

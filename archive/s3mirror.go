package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Mirror is s3cache.Cache adapted from an httpcache.Cache (get/set by
// opaque key) into a direct object mirror: Upload puts the blob straight
// under bucket/prefix/key rather than hashing the key into a cache path.
// Gzip-before-upload is kept from s3cache.go.
type S3Mirror struct {
	Config aws.Config
	Client *s3.Client

	bucket string
	prefix string
	gzip   bool

	// LogErrors controls whether upload failures are logged here; Upload
	// returns the error either way.
	LogErrors bool
}

// NewS3Mirror returns a mirror targeting the given bucket and key prefix.
// Callers must call Init before the first Upload.
func NewS3Mirror(bucket, prefix string, gzipUploads bool) *S3Mirror {
	return &S3Mirror{bucket: bucket, prefix: prefix, gzip: gzipUploads, LogErrors: true}
}

// Init loads the default AWS config and verifies bucket access, mirroring
// s3cache.Cache.Init's permission-check pattern.
func (m *S3Mirror) Init(ctx context.Context) error {
	var err error
	m.Config, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("archive.S3Mirror.Init: load AWS config: %w", err)
	}
	m.Client = s3.NewFromConfig(m.Config)

	if _, err = m.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(m.bucket),
	}); err != nil {
		return fmt.Errorf("archive.S3Mirror.Init: head bucket %s: %w", m.bucket, err)
	}
	return nil
}

func (m *S3Mirror) objectKey(key string) string {
	objKey := fmt.Sprintf("%s/%s", m.prefix, key)
	if m.gzip {
		objKey += ".gz"
	}
	return objKey
}

// Upload best-effort writes data to S3 under bucket/prefix/key, gzipped
// when configured. Errors are logged (if LogErrors) but still returned, so
// a caller that wants fire-and-forget semantics should ignore the error.
func (m *S3Mirror) Upload(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.objectKey(key)),
		Body:   bytes.NewReader(data),
	}

	if m.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return m.logged(fmt.Errorf("archive.S3Mirror.Upload: gzip: %w", err))
		}
		if err := gw.Close(); err != nil {
			return m.logged(fmt.Errorf("archive.S3Mirror.Upload: gzip close: %w", err))
		}
		input.Body = bytes.NewReader(buf.Bytes())
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := m.Client.PutObject(ctx, input); err != nil {
		return m.logged(fmt.Errorf("archive.S3Mirror.Upload: put %s: %w", *input.Key, err))
	}
	return nil
}

func (m *S3Mirror) logged(err error) error {
	if m.LogErrors {
		log.Printf("archive: %v", err)
	}
	return err
}

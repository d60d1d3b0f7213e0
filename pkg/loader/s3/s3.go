package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"
)

// ObjectGetter is the subset of *s3.Client the source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source loads a snapshot object from an S3 compatible bucket. The first
// successful download is cached.
type S3Source struct {
	bucket string
	key    string
	client ObjectGetter

	cache   []byte
	cached  bool
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3SourceWithClient creates an S3Source using an existing client. This is
// useful to reuse a preconfigured AWS client (e.g. MinIO with path style).
func NewS3SourceWithClient(bucket, key string, client ObjectGetter) *S3Source {
	return &S3Source{
		bucket: bucket,
		key:    key,
		client: client,
	}
}

func (s *S3Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

// Fetch downloads the object body.
func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	s.cacheMu.RLock()
	if s.cached {
		defer s.cacheMu.RUnlock()
		return s.cache, nil
	}
	s.cacheMu.RUnlock()

	result, err, _ := s.group.Do(s.key, func() (any, error) {
		s.cacheMu.RLock()
		if s.cached {
			defer s.cacheMu.RUnlock()
			return s.cache, nil
		}
		s.cacheMu.RUnlock()

		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", s.Name(), err)
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", s.Name(), err)
		}

		byts := buf.Bytes()

		s.cacheMu.Lock()
		s.cache = byts
		s.cached = true
		s.cacheMu.Unlock()

		return byts, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

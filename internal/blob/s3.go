package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"depot/internal/depot"
)

// S3Store is an S3-backed implementation of the BlobStore interface.
// Blobs are stored as objects under an optional key prefix:
//
//	s3://<bucket>/<prefix>/content/<storageKey>
//
// Credentials come from the default AWS credential chain (environment,
// shared config, instance role).
type S3Store struct {
	name     string
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Store creates a new S3 store for the given bucket, prefix, and region.
// If accessKeyID is non-empty, static credentials are used; otherwise the
// default AWS credential chain applies.
func NewS3Store(name, bucket, prefix, region, accessKeyID, secretAccessKey string) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &S3Store{
		name:     name,
		bucket:   bucket,
		prefix:   prefix,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// objectKey returns the full S3 object key for a storage key.
func (s *S3Store) objectKey(key string) string {
	return path.Join(s.prefix, "content", key)
}

// Put stores content under the given storage key and returns the number of
// bytes written. The uploader streams in parts, so the content size does not
// need to be known up front.
func (s *S3Store) Put(key string, r io.Reader) (int64, error) {
	counted := &countingReader{r: r}

	_, err := s.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   counted,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	return counted.n, nil
}

// Get retrieves content by storage key and writes it to w.
func (s *S3Store) Get(key string, w io.Writer) error {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return fmt.Errorf("blob not found: %s", key)
		}
		return fmt.Errorf("failed to get blob: %w", err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("failed to read blob: %w", err)
	}

	return nil
}

// Exists reports whether a blob is stored under the given key.
func (s *S3Store) Exists(key string) (bool, error) {
	_, err := s.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check blob: %w", err)
	}
	return true, nil
}

// Remove deletes the blob stored under the given key.
// S3 DeleteObject succeeds for missing keys, so removal is idempotent.
func (s *S3Store) Remove(key string) error {
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to remove blob: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the bucket exists and is accessible.
func (s *S3Store) ValidateSetup() error {
	_, err := s.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", s.bucket, err)
	}
	return nil
}

// countingReader wraps a reader and counts the bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Compile-time check that S3Store implements depot.BlobStore interface
var _ depot.BlobStore = (*S3Store)(nil)

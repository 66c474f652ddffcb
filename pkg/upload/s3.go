package upload

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the slice of the S3 client this store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store keeps temp files in an S3 bucket under a key prefix. Original
// filenames travel as object metadata.
type S3Store struct {
	client  s3API
	bucket  string
	prefix  string
	maxSize int64
}

// S3Option configures an S3Store.
type S3Option func(*S3Store)

// WithS3Prefix sets the key prefix for temp objects. Defaults to "tmp/".
func WithS3Prefix(prefix string) S3Option {
	return func(s *S3Store) { s.prefix = prefix }
}

// WithS3MaxSize bounds accepted file sizes. Zero means unbounded.
func WithS3MaxSize(maxSize int64) S3Option {
	return func(s *S3Store) { s.maxSize = maxSize }
}

// NewS3Store creates a store writing into the given bucket.
func NewS3Store(client s3API, bucket string, opts ...S3Option) *S3Store {
	s := &S3Store{client: client, bucket: bucket, prefix: "tmp/"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save streams the upload into the bucket and returns its minted ID.
func (s *S3Store) Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return "", ErrTooLarge
	}
	tempID := mintTempID()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.prefix + tempID),
		Body:          r,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		Metadata:      map[string]string{"filename": filename},
	})
	if err != nil {
		return "", err
	}
	return tempID, nil
}

// Claim fetches the object and hands over its body. The object is
// deleted once the reader is closed.
func (s *S3Store) Claim(ctx context.Context, tempID string) (*File, error) {
	key := s.prefix + tempID
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, ErrNotFound
	}

	file := &File{
		ID:     tempID,
		Size:   aws.ToInt64(out.ContentLength),
		Reader: &deleteObjectReader{ReadCloser: out.Body, store: s, key: key},
	}
	file.ContentType = aws.ToString(out.ContentType)
	if name, ok := out.Metadata["filename"]; ok {
		file.Filename = name
	}
	return file, nil
}

// Cleanup deletes temp objects older than maxAge, paging through the
// prefix.
func (s *S3Store) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)
	var continuation *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return err
		}
		for _, obj := range out.Contents {
			if obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return err
			}
		}
		if !aws.ToBool(out.IsTruncated) {
			return nil
		}
		continuation = out.NextContinuationToken
	}
}

// deleteObjectReader removes the backing object when closed.
type deleteObjectReader struct {
	io.ReadCloser
	store *S3Store
	key   string
}

func (r *deleteObjectReader) Close() error {
	err := r.ReadCloser.Close()
	r.store.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(r.store.bucket),
		Key:    aws.String(r.key),
	})
	return err
}

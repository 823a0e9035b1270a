package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ObjectStorage is the media surface the services depend on. Upload
// returns signed references; Delete is best-effort and reports success.
type ObjectStorage interface {
	UploadFile(ctx context.Context, file File, folder string) (string, error)
	UploadFiles(ctx context.Context, files []File, folder string) ([]string, error)
	DeleteFile(ctx context.Context, ref string) bool
	DeleteFiles(ctx context.Context, refs []string)
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4PresignedRequest, error)
}

// v4PresignedRequest narrows the presign client result to the URL we use.
type v4PresignedRequest struct {
	URL string
}

// presignClient adapts *s3.PresignClient to presignAPI.
type presignClient struct {
	inner *s3.PresignClient
}

func (p *presignClient) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4PresignedRequest, error) {
	req, err := p.inner.PresignGetObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &v4PresignedRequest{URL: req.URL}, nil
}

// Uploader stores media in S3 and hands out presigned GET URLs.
type Uploader struct {
	api     s3API
	presign presignAPI
	bucket  string
	ttl     time.Duration
	workers int
	log     *zap.Logger
}

// NewUploader builds an Uploader from a configured S3 client.
func NewUploader(client *s3.Client, bucket string, ttl time.Duration, workers int, log *zap.Logger) *Uploader {
	if workers <= 0 {
		workers = 1
	}
	return &Uploader{
		api:     client,
		presign: &presignClient{inner: s3.NewPresignClient(client)},
		bucket:  bucket,
		ttl:     ttl,
		workers: workers,
		log:     log,
	}
}

// UploadFile validates, stores one object under folder/<uuid><ext> and
// returns a presigned URL for it.
func (u *Uploader) UploadFile(ctx context.Context, file File, folder string) (string, error) {
	if err := ValidateFile(file, folder); err != nil {
		return "", err
	}
	key := folder + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(file.Name))
	_, err := u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(file.ContentType),
	})
	if err != nil {
		u.log.Error("s3 upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	req, err := u.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = u.ttl
	})
	if err != nil {
		u.log.Error("s3 presign failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// UploadFiles validates the whole batch up front, then uploads in
// parallel bounded by the worker limit. If any upload fails, already
// stored objects from this batch are deleted and the error is returned.
// The returned slice preserves input order.
func (u *Uploader) UploadFiles(ctx context.Context, files []File, folder string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	for _, f := range files {
		if err := ValidateFile(f, folder); err != nil {
			return nil, err
		}
	}

	refs := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for i := range files {
		i := i
		g.Go(func() error {
			ref, err := u.UploadFile(gctx, files[i], folder)
			if err != nil {
				return err
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var uploaded []string
		for _, ref := range refs {
			if ref != "" {
				uploaded = append(uploaded, ref)
			}
		}
		u.DeleteFiles(ctx, uploaded)
		return nil, err
	}
	return refs, nil
}

// DeleteFile removes the object behind a presigned URL. Failures are
// logged and reported as false; callers treat deletion as best-effort.
func (u *Uploader) DeleteFile(ctx context.Context, ref string) bool {
	key, err := keyFromRef(ref)
	if err != nil {
		u.log.Warn("unparseable storage reference", zap.String("ref", ref), zap.Error(err))
		return false
	}
	_, err = u.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		u.log.Warn("s3 delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// DeleteFiles removes a batch of objects in parallel, best-effort.
func (u *Uploader) DeleteFiles(ctx context.Context, refs []string) {
	var wg sync.WaitGroup
	for _, ref := range refs {
		ref := ref
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.DeleteFile(ctx, ref)
		}()
	}
	wg.Wait()
}

// keyFromRef extracts the object key from a presigned URL path.
func keyFromRef(ref string) (string, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", fmt.Errorf("no object key in %q", ref)
	}
	return key, nil
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/chdeepakkumar/portfolio/internal/logging"
)

// S3Options configures the remote blob backend. BaseEndpoint is optional and
// points the client at an S3-compatible store (minio etc.) instead of AWS.
type S3Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// S3 stores objects in a single bucket of an S3-compatible blob store.
//
// The store is eventually consistent: a completed write may not be visible to
// an immediately following read or existence check. Callers are expected to
// wrap this backend with WithRetry.
type S3 struct {
	client *s3.Client
	bucket string
	logger logging.Logger
}

// NewS3 builds the remote backend from static credentials.
func NewS3(ctx context.Context, opts S3Options, logger logging.Logger) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%w: loading aws config: %v", common.ErrBackend, err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{client: client, bucket: opts.Bucket, logger: logger.With("backend", "s3")}, nil
}

func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

func (r *S3) Read(ctx context.Context, p string) (string, error) {
	b, err := r.ReadBytes(ctx, p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *S3) ReadBytes(ctx context.Context, p string) ([]byte, error) {
	if err := validatePath(p); err != nil {
		return nil, err
	}
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(p),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("read %s: %w", p, common.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrBackend, p, err)
	}
	defer out.Body.Close()
	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrBackend, p, err)
	}
	return b, nil
}

func (r *S3) Write(ctx context.Context, p string, content string, verify bool) error {
	if err := r.WriteBytes(ctx, p, []byte(content)); err != nil {
		return err
	}
	if verify {
		// Single probe only. The write is assumed to have succeeded
		// server-side even when not yet visible, so this never fails hard.
		ok, err := r.Exists(ctx, p)
		if err != nil || !ok {
			r.logger.Warn(ctx, "write not yet visible, store may still be converging", "path", p)
		}
	}
	return nil
}

func (r *S3) WriteBytes(ctx context.Context, p string, data []byte) error {
	if err := validatePath(p); err != nil {
		return err
	}
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(p),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", common.ErrBackend, p, err)
	}
	return nil
}

// Exists reports honest transport errors so the retry decorator can retry
// them; it is the decorator that degrades a persistent failure to false.
func (r *S3) Exists(ctx context.Context, p string) (bool, error) {
	if err := validatePath(p); err != nil {
		return false, err
	}
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(p),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: head %s: %v", common.ErrBackend, p, err)
	}
	return true, nil
}

func (r *S3) Delete(ctx context.Context, p string) error {
	// S3 deletes are idempotent, so probe first to keep the NotFound contract.
	ok, err := r.Exists(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("delete %s: %w", p, common.ErrNotFound)
	}
	_, err = r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(p),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", common.ErrBackend, p, err)
	}
	return nil
}

func (r *S3) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	keyPrefix := ""
	if prefix != "" {
		if err := validatePath(prefix); err != nil {
			return nil, err
		}
		keyPrefix = prefix + "/"
	}

	var infos []ObjectInfo
	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(keyPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %v", common.ErrBackend, prefix, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), keyPrefix)
			if name == "" || strings.Contains(name, "/") {
				// Not an immediate child.
				continue
			}
			infos = append(infos, ObjectInfo{
				Name:       name,
				Size:       aws.ToInt64(obj.Size),
				ModifiedAt: aws.ToTime(obj.LastModified),
			})
		}
	}
	if infos == nil {
		infos = []ObjectInfo{}
	}
	return infos, nil
}

func (r *S3) Stat(ctx context.Context, p string) (ObjectInfo, error) {
	if err := validatePath(p); err != nil {
		return ObjectInfo{}, err
	}
	out, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(p),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return ObjectInfo{}, fmt.Errorf("stat %s: %w", p, common.ErrNotFound)
		}
		return ObjectInfo{}, fmt.Errorf("%w: stat %s: %v", common.ErrBackend, p, err)
	}
	name := p
	if i := strings.LastIndex(p, "/"); i >= 0 {
		name = p[i+1:]
	}
	return ObjectInfo{
		Name:       name,
		Size:       aws.ToInt64(out.ContentLength),
		ModifiedAt: aws.ToTime(out.LastModified),
	}, nil
}

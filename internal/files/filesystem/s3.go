package filesystem

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Scheme prefixes dataset roots stored in S3.
const S3Scheme = "s3://"

// IsS3Path reports whether p is an s3:// URL.
func IsS3Path(p string) bool {
	return strings.HasPrefix(p, S3Scheme)
}

// ParseS3Path splits s3://bucket/prefix into bucket and key prefix.
func ParseS3Path(p string) (bucket, key string, err error) {
	if !IsS3Path(p) {
		return "", "", fmt.Errorf("%q is not an s3:// URL: %w", p, fs.ErrInvalid)
	}
	rest := strings.TrimPrefix(p, S3Scheme)
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%q has no bucket: %w", p, fs.ErrInvalid)
	}
	return bucket, key, nil
}

// S3API is the part of *s3.Client the provider uses.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3FileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (f *s3FileInfo) Name() string       { return f.name }
func (f *s3FileInfo) Size() int64        { return f.size }
func (f *s3FileInfo) Mode() fs.FileMode  { return 0444 }
func (f *s3FileInfo) ModTime() time.Time { return f.modTime }
func (f *s3FileInfo) IsDir() bool        { return false }
func (f *s3FileInfo) Sys() interface{}   { return nil }

type s3Object struct {
	url     string
	relPath string
	info    *s3FileInfo
}

func (o *s3Object) Path() string         { return o.url }
func (o *s3Object) RelativePath() string { return o.relPath }
func (o *s3Object) Info() FileInfo       { return o.info }

type s3Directory struct {
	url     string
	objects []*s3Object
}

func (d *s3Directory) Path() string { return d.url }

func (d *s3Directory) Walk(ctx context.Context, fn func(File, error) error) error {
	for _, o := range d.objects {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := safeCall(o.url, func() error { return fn(o, nil) }); err != nil {
			return err
		}
	}
	return nil
}

// S3FileSystem lists and reads objects under s3:// prefixes.
type S3FileSystem struct {
	client S3API
}

func NewS3FileSystem(client S3API) *S3FileSystem {
	if client == nil {
		panic("client cannot be nil")
	}
	return &S3FileSystem{client: client}
}

// NewS3FileSystemFromEnv builds a client from the default AWS credential chain.
// AWS_ENDPOINT_URL points it at S3-compatible stores such as MinIO.
func NewS3FileSystemFromEnv(ctx context.Context) (*S3FileSystem, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != nil {
			o.UsePathStyle = true
		}
	})
	return NewS3FileSystem(client), nil
}

// Open lists every object under the prefix. An empty listing counts as a
// missing root, because S3 has no directories to tell the two apart.
func (p *S3FileSystem) Open(ctx context.Context, root string) (Directory, error) {
	bucket, prefix, err := ParseS3Path(root)
	if err != nil {
		return nil, err
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var objects []*s3Object
	paginator := s3.NewListObjectsV2Paginator(p.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", root, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			objects = append(objects, &s3Object{
				url:     S3Scheme + bucket + "/" + key,
				relPath: strings.TrimPrefix(key, prefix),
				info: &s3FileInfo{
					name:    path.Base(key),
					size:    aws.ToInt64(obj.Size),
					modTime: aws.ToTime(obj.LastModified),
				},
			})
		}
	}

	if len(objects) == 0 {
		return nil, &fs.PathError{Op: "open", Path: root, Err: fs.ErrNotExist}
	}
	return &s3Directory{url: root, objects: objects}, nil
}

func (p *S3FileSystem) ReadFile(ctx context.Context, url string) ([]byte, error) {
	bucket, key, err := ParseS3Path(url)
	if err != nil {
		return nil, err
	}

	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", url, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}

package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Scheme is the URI prefix routed to S3FileSystem.
const S3Scheme = "s3://"

const defaultS3Timeout = 30 * time.Second

// S3Config holds construction parameters for S3FileSystem.
type S3Config struct {
	Region          string
	Endpoint        string // optional; enables a custom endpoint such as MinIO
	AccessKeyID     string // optional, falls back to the default credentials chain
	SecretAccessKey string
	PathStyle       bool
	Timeout         time.Duration
}

// S3FileSystem reads RSML documents from s3://bucket/key URIs.
// Directories are key prefixes.
type S3FileSystem struct {
	client  *s3.Client
	timeout time.Duration
}

// NewS3FileSystem builds a provider from cfg using the AWS default config chain.
func NewS3FileSystem(ctx context.Context, cfg S3Config) (*S3FileSystem, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3FileSystemWithClient(client, cfg.Timeout), nil
}

// NewS3FileSystemWithClient wraps an existing client.
func NewS3FileSystemWithClient(client *s3.Client, timeout time.Duration) *S3FileSystem {
	if timeout <= 0 {
		timeout = defaultS3Timeout
	}
	return &S3FileSystem{client: client, timeout: timeout}
}

// IsS3Path reports whether p is an s3:// URI.
func IsS3Path(p string) bool {
	return strings.HasPrefix(p, S3Scheme)
}

// SplitS3Path splits s3://bucket/key into bucket and key.
func SplitS3Path(p string) (bucket, key string, err error) {
	if !IsS3Path(p) {
		return "", "", fmt.Errorf("not an s3 path: %s", p)
	}
	rest := strings.TrimPrefix(p, S3Scheme)
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("s3 path has no bucket: %s", p)
	}
	return bucket, key, nil
}

func (p *S3FileSystem) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), p.timeout)
}

// ReadFile implements FileSystemProvider.ReadFile
func (p *S3FileSystem) ReadFile(uri string) ([]byte, error) {
	bucket, key, err := SplitS3Path(uri)
	if err != nil {
		return nil, err
	}
	ctx, cancel := p.context()
	defer cancel()

	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return nil, mapS3Error(uri, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", uri, err)
	}
	return data, nil
}

// Stat implements FileSystemProvider.Stat. A key with no object but with
// objects under key/ is reported as a directory.
func (p *S3FileSystem) Stat(uri string) (FileInfo, error) {
	bucket, key, err := SplitS3Path(uri)
	if err != nil {
		return nil, err
	}
	ctx, cancel := p.context()
	defer cancel()

	if key != "" && !strings.HasSuffix(key, "/") {
		out, headErr := p.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &bucket, Key: &key})
		if headErr == nil {
			return &memoryFileInfo{
				name:    path.Base(key),
				size:    aws.ToInt64(out.ContentLength),
				mode:    0444,
				modTime: aws.ToTime(out.LastModified),
			}, nil
		}
		if mapped := mapS3Error(uri, headErr); !errors.Is(mapped, fs.ErrNotExist) {
			return nil, mapped
		}
	}

	prefix := dirPrefix(key)
	out, err := p.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: &bucket, Prefix: &prefix, MaxKeys: aws.Int32(1)})
	if err != nil {
		return nil, mapS3Error(uri, err)
	}
	if len(out.Contents) == 0 {
		return nil, fmt.Errorf("path not found: %s: %w", uri, fs.ErrNotExist)
	}
	return &memoryFileInfo{name: path.Base(strings.TrimSuffix(prefix, "/")), mode: 0555 | fs.ModeDir, isDir: true}, nil
}

// Open implements FileSystemProvider.Open
func (p *S3FileSystem) Open(uri string) (Directory, error) {
	bucket, key, err := SplitS3Path(uri)
	if err != nil {
		return nil, err
	}
	return &s3Directory{fs: p, bucket: bucket, prefix: dirPrefix(key)}, nil
}

func dirPrefix(key string) string {
	if key == "" || strings.HasSuffix(key, "/") {
		return key
	}
	return key + "/"
}

func mapS3Error(uri string, err error) error {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	var respErr *awshttp.ResponseError
	switch {
	case errors.As(err, &noKey), errors.As(err, &notFound):
		return fmt.Errorf("object not found: %s: %w", uri, fs.ErrNotExist)
	case errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound:
		return fmt.Errorf("object not found: %s: %w", uri, fs.ErrNotExist)
	}
	return fmt.Errorf("s3 request for %s failed: %w", uri, err)
}

type s3Directory struct {
	fs     *S3FileSystem
	bucket string
	prefix string
}

func (d *s3Directory) Path() string {
	return S3Scheme + d.bucket + "/" + d.prefix
}

// Walk lists every object under the prefix in key order. Only objects are
// visited; S3 has no real directories.
func (d *s3Directory) Walk(fn func(File, error) error) error {
	var objects []types.Object
	var token *string
	for {
		ctx, cancel := d.fs.context()
		out, err := d.fs.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &d.bucket,
			Prefix:            &d.prefix,
			ContinuationToken: token,
		})
		cancel()
		if err != nil {
			return fn(nil, mapS3Error(d.Path(), err))
		}
		objects = append(objects, out.Contents...)
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	sort.Slice(objects, func(i, j int) bool {
		return aws.ToString(objects[i].Key) < aws.ToString(objects[j].Key)
	})

	for _, obj := range objects {
		key := aws.ToString(obj.Key)
		if strings.HasSuffix(key, "/") {
			continue
		}
		f := &s3File{
			fs:      d.fs,
			uri:     S3Scheme + d.bucket + "/" + key,
			relPath: strings.TrimPrefix(key, d.prefix),
			info: &memoryFileInfo{
				name:    path.Base(key),
				size:    aws.ToInt64(obj.Size),
				mode:    0444,
				modTime: aws.ToTime(obj.LastModified),
			},
		}
		if err := fn(f, nil); err != nil {
			return err
		}
	}
	return nil
}

type s3File struct {
	fs      *S3FileSystem
	uri     string
	relPath string
	info    fs.FileInfo
}

func (f *s3File) Path() string         { return f.uri }
func (f *s3File) RelativePath() string { return f.relPath }
func (f *s3File) Info() FileInfo       { return f.info }

func (f *s3File) ReadContent() ([]byte, error) {
	return f.fs.ReadFile(f.uri)
}

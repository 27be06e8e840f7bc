package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// ErrCancelled is returned by a Deliverer when the user abandons delivery.
// Export treats it as an abort, not a failure.
var ErrCancelled = errors.New("delivery cancelled")

// Deliverer hands serialized document bytes to their destination.
type Deliverer interface {
	Deliver(ctx context.Context, data []byte, name string) error
}

// Opener reads a previously delivered document in full.
type Opener interface {
	Open(ctx context.Context, name string) ([]byte, error)
}

// Result describes a finished Export.
type Result struct {
	Name      string
	Bytes     int
	Cancelled bool
	Document  *Document
}

// DefaultFileName returns the suggested name for a backup taken at now.
func DefaultFileName(now time.Time) string {
	return "partsbin-backup-" + now.Format("2006-01-02") + ".json"
}

// Export captures src, serializes it and delivers it under name. An empty
// name uses DefaultFileName. A cancelled delivery returns Result.Cancelled
// and no error.
func Export(ctx context.Context, src Source, d Deliverer, name string, now time.Time) (Result, error) {
	if name == "" {
		name = DefaultFileName(now)
	}
	doc := Capture(src, now)
	raw, err := Serialize(doc)
	if err != nil {
		return Result{}, err
	}
	res := Result{Name: name, Document: doc}
	if err := d.Deliver(ctx, raw, name); err != nil {
		if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
			res.Cancelled = true
			return res, nil
		}
		return Result{}, fmt.Errorf("%w: delivering %s: %v", types.ErrSinkFailure, name, err)
	}
	res.Bytes = len(raw)
	return res, nil
}

// Import opens name, buffers it fully, and restores it into target.
func Import(ctx context.Context, o Opener, target Target, name string) (*Document, error) {
	raw, err := o.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", types.ErrSinkFailure, name, err)
	}
	return Restore(target, raw)
}

// Filesystem delivers documents as files under Dir.
type Filesystem struct {
	Dir string
}

// Deliver writes data to Dir/name through a temp file and rename, so a
// reader never sees a partial document.
func (f Filesystem) Deliver(ctx context.Context, data []byte, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.pathFor(name)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".backup-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Open reads Dir/name. A name that is already an absolute path is read as
// is.
func (f Filesystem) Open(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := name
	if !filepath.IsAbs(name) {
		var err error
		if path, err = f.pathFor(name); err != nil {
			return nil, err
		}
	}
	return os.ReadFile(path)
}

func (f Filesystem) pathFor(name string) (string, error) {
	clean, err := sanitizeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.Dir, filepath.FromSlash(clean)), nil
}

// sanitizeName rejects empty, absolute and traversing names.
func sanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty backup name")
	}
	if strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid backup name %q: contains '..'", name)
	}
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid backup name %q: absolute path", name)
	}
	return filepath.ToSlash(filepath.Clean(name)), nil
}

// S3Config selects the bucket backups are delivered to.
type S3Config struct {
	Bucket          string `mapstructure:"bucket" yaml:"bucket"`
	Prefix          string `mapstructure:"prefix" yaml:"prefix"`
	Region          string `mapstructure:"region" yaml:"region"`
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint"` // Optional, e.g. MinIO.
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token" yaml:"session_token"`
	PathStyle       bool   `mapstructure:"path_style" yaml:"path_style"`
}

// S3 delivers documents as objects in a single bucket.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 builds an S3 deliverer. Credentials come from cfg when set and from
// the default AWS chain otherwise. optFns adjust the client options.
func NewS3(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	})
	return &S3{client: client, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/")}, nil
}

// Deliver uploads data as bucket/prefix/name.
func (s *S3) Deliver(ctx context.Context, data []byte, name string) error {
	key, err := s.keyFor(name)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Open downloads bucket/prefix/name.
func (s *S3) Open(ctx context.Context, name string) ([]byte, error) {
	key, err := s.keyFor(name)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *S3) keyFor(name string) (string, error) {
	clean, err := sanitizeName(name)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return clean, nil
	}
	return s.prefix + "/" + clean, nil
}

package protected

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/crm-retention/internal/config"
	"github.com/ignite/crm-retention/internal/pkg/httpretry"
	"github.com/ignite/crm-retention/internal/retention"
)

// Source produces the current protected set.
type Source interface {
	Load(ctx context.Context) (retention.ProtectedSet, error)
	// Location describes where the list is read from, for logs.
	Location() string
}

// FileSource reads the list from a local file. A missing file yields an
// empty set: running without an export simply protects nobody.
type FileSource struct {
	Path string
}

func (f FileSource) Location() string { return f.Path }

func (f FileSource) Load(_ context.Context) (retention.ProtectedSet, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return retention.ProtectedSet{}, nil
		}
		return retention.ProtectedSet{}, fmt.Errorf("open protected list: %w", err)
	}
	defer fh.Close()
	return retention.ParseProtected(fh)
}

// S3API is the subset of the S3 client used to fetch the export.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the list from an S3 object.
type S3Source struct {
	Client S3API
	Bucket string
	Key    string
}

func (s S3Source) Location() string { return "s3://" + s.Bucket + "/" + s.Key }

func (s S3Source) Load(ctx context.Context) (retention.ProtectedSet, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.Bucket,
		Key:    &s.Key,
	})
	if err != nil {
		return retention.ProtectedSet{}, fmt.Errorf("get %s: %w", s.Location(), err)
	}
	defer out.Body.Close()
	return retention.ParseProtected(out.Body)
}

// HTTPSource downloads the list from a URL, typically the newsletter
// service's export endpoint.
type HTTPSource struct {
	Client httpretry.HTTPDoer
	URL    string
}

func (h HTTPSource) Location() string { return h.URL }

func (h HTTPSource) Load(ctx context.Context) (retention.ProtectedSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return retention.ProtectedSet{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := h.Client.Do(req)
	if err != nil {
		return retention.ProtectedSet{}, fmt.Errorf("get %s: %w", h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return retention.ProtectedSet{}, fmt.Errorf("get %s: unexpected status %d", h.URL, resp.StatusCode)
	}
	return retention.ParseProtected(resp.Body)
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("not an s3 url: %q", raw)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("s3 url has no key: %q", raw)
	}
	return u.Host, key, nil
}

// NewSource picks the source for the configured path.
func NewSource(ctx context.Context, cfg config.ProtectedConfig) (Source, error) {
	switch {
	case strings.HasPrefix(cfg.Path, "http://"), strings.HasPrefix(cfg.Path, "https://"):
		return HTTPSource{Client: httpretry.NewRetryClient(nil, 3), URL: cfg.Path}, nil
	case !strings.HasPrefix(cfg.Path, "s3://"):
		return FileSource{Path: cfg.Path}, nil
	}

	bucket, key, err := ParseS3URL(cfg.Path)
	if err != nil {
		return nil, err
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSProfile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return S3Source{Client: s3.NewFromConfig(awsCfg), Bucket: bucket, Key: key}, nil
}

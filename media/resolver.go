// Package media turns catalog image references into URLs the browser can load.
package media

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

var SupportedExt = mapset.NewSet(
	".jpeg", ".jpg", ".JPEG", ".JPG",
	".png", ".PNG",
	".webp", ".WEBP",
)

// Supported reports whether name has an image extension the site serves.
func Supported(name string) bool {
	return SupportedExt.Contains(filepath.Ext(name))
}

type Resolver interface {
	URL(ctx context.Context, src string) (string, error)
}

// LocalResolver serves images from the site itself under Prefix. Absolute http(s) references
// are passed through.
type LocalResolver struct {
	Prefix string
}

func (l LocalResolver) URL(_ context.Context, src string) (string, error) {
	if src == "" {
		return "", nil
	}
	if isAbsoluteURL(src) {
		return src, nil
	}
	return path.Join("/", l.Prefix, key(src)), nil
}

// key normalises a catalog reference ("/images/a.jpg", "a.jpg") into an object key.
func key(src string) string {
	cleaned := path.Clean("/" + src)
	cleaned = strings.TrimPrefix(cleaned, "/images/")
	return strings.TrimPrefix(cleaned, "/")
}

func isAbsoluteURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

type presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*presignedRequest, error)
}

// presignedRequest mirrors the fields of v4.PresignedHTTPRequest the resolver reads.
type presignedRequest struct {
	URL string
}

type s3Presigner struct {
	client *s3.PresignClient
}

func (p s3Presigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*presignedRequest, error) {
	req, err := p.client.PresignGetObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &presignedRequest{URL: req.URL}, nil
}

// S3Resolver hands out presigned GET URLs for objects in Bucket. URLs are reused for half of
// their lifetime so repeated renders stay cacheable in the browser.
type S3Resolver struct {
	bucket    string
	expiry    time.Duration
	presigner presigner
	cache     *expirable.LRU[string, string]
}

func NewS3Resolver(client *s3.Client, bucket string, expiry time.Duration) *S3Resolver {
	return newS3Resolver(s3Presigner{client: s3.NewPresignClient(client)}, bucket, expiry)
}

func newS3Resolver(p presigner, bucket string, expiry time.Duration) *S3Resolver {
	return &S3Resolver{
		bucket:    bucket,
		expiry:    expiry,
		presigner: p,
		cache:     expirable.NewLRU[string, string](1024, nil, expiry/2),
	}
}

func (r *S3Resolver) URL(ctx context.Context, src string) (string, error) {
	if src == "" {
		return "", nil
	}
	if isAbsoluteURL(src) {
		return src, nil
	}
	k := key(src)
	if u, ok := r.cache.Get(k); ok {
		return u, nil
	}

	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(k),
	}, s3.WithPresignExpires(r.expiry))
	if err != nil {
		return "", fmt.Errorf("unable to presign s3 object, %s, %w", k, err)
	}
	r.cache.Add(k, req.URL)
	return req.URL, nil
}

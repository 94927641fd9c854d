package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

func TestLocalResolver(t *testing.T) {
	r := LocalResolver{Prefix: "/images"}
	ctx := context.Background()

	tests := []struct {
		src  string
		want string
	}{
		{"/images/gallery-1.jpg", "/images/gallery-1.jpg"},
		{"gallery-1.jpg", "/images/gallery-1.jpg"},
		{"/images/../../etc/passwd", "/images/etc/passwd"},
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := r.URL(ctx, tt.src)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, tt.src)
	}
}

func TestSupported(t *testing.T) {
	require.True(t, Supported("a.jpg"))
	require.True(t, Supported("dir/a.PNG"))
	require.False(t, Supported("notes.txt"))
	require.False(t, Supported("jpg"))
}

type fakePresigner struct {
	calls atomic.Int32
	err   error
}

func (f *fakePresigner) PresignGetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*presignedRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := f.calls.Add(1)
	return &presignedRequest{URL: fmt.Sprintf("https://%s.s3/%s?sig=%d", aws.ToString(params.Bucket), aws.ToString(params.Key), n)}, nil
}

func TestS3ResolverCachesPresignedURLs(t *testing.T) {
	p := &fakePresigner{}
	r := newS3Resolver(p, "salon", time.Minute)

	first, err := r.URL(context.Background(), "/images/gallery-1.jpg")
	require.NoError(t, err)
	require.Equal(t, "https://salon.s3/gallery-1.jpg?sig=1", first)

	again, err := r.URL(context.Background(), "gallery-1.jpg")
	require.NoError(t, err)
	require.Equal(t, first, again)
	require.EqualValues(t, 1, p.calls.Load())
}

func TestS3ResolverError(t *testing.T) {
	r := newS3Resolver(&fakePresigner{err: errors.New("no credentials")}, "salon", time.Minute)
	_, err := r.URL(context.Background(), "a.jpg")
	require.ErrorContains(t, err, "no credentials")
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	for k := range f.objects {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("no such key")
	}
	n := int64(len(body))
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: aws.Int64(n),
		ContentRange:  aws.String(fmt.Sprintf("bytes 0-%d/%d", n-1, n)),
	}, nil
}

func TestMirrorSync(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.jpg"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.jpg"), []byte("keep"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	client := &fakeS3{objects: map[string][]byte{
		"keep.jpg":          []byte("keep"),
		"gallery/new-1.png": []byte("new image"),
		"notes.txt":         []byte("ignored"),
	}}
	m, err := NewMirror(client, "salon", dir, time.Hour)
	require.NoError(t, err)

	var notified SyncResult
	m.OnSync = func(r SyncResult) { notified = r }

	result, err := m.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"gallery/new-1.png"}, result.Added)
	require.Equal(t, []string{"stale.jpg"}, result.Removed)
	require.Equal(t, result, notified)

	got, err := os.ReadFile(filepath.Join(dir, "gallery", "new-1.png"))
	require.NoError(t, err)
	require.Equal(t, "new image", string(got))
	require.NoFileExists(t, filepath.Join(dir, "stale.jpg"))
	require.FileExists(t, filepath.Join(dir, "readme.txt"))

	// second pass has nothing to do
	result, err = m.Sync(context.Background())
	require.NoError(t, err)
	require.False(t, result.Changed())
}

func TestNewMirrorRequiresBucket(t *testing.T) {
	_, err := NewMirror(&fakeS3{}, "", t.TempDir(), time.Hour)
	require.Error(t, err)
}

func TestMirrorRunStopsWithContext(t *testing.T) {
	m, err := NewMirror(&fakeS3{objects: map[string][]byte{}}, "salon", t.TempDir(), time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

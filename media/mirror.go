package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	mapset "github.com/deckarep/golang-set/v2"
)

const syncTimeout = 30 * time.Minute

// NewS3Client loads the shared AWS configuration, using profile when it is set.
func NewS3Client(ctx context.Context, profile string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	ctxCfg, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	cfg, err := awsconfig.LoadDefaultConfig(ctxCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Client is the subset of the S3 API the mirror needs.
type Client interface {
	s3.ListObjectsV2APIClient
	manager.DownloadAPIClient
}

// SyncResult lists the object keys a sync added and removed locally.
type SyncResult struct {
	Added   []string
	Removed []string
}

func (s SyncResult) Changed() bool {
	return len(s.Added) > 0 || len(s.Removed) > 0
}

// Mirror keeps outputPath in step with the images in an S3 bucket so they can be served by a
// LocalResolver.
type Mirror struct {
	client     Client
	s3Bucket   string
	outputPath string
	interval   time.Duration

	// OnSync is called after every sync that changed the local folder.
	OnSync func(SyncResult)
}

func NewMirror(client Client, bucket, outputPath string, interval time.Duration) (*Mirror, error) {
	if bucket == "" {
		return nil, errors.New("no s3 bucket provided")
	}
	if interval <= 0 {
		interval = time.Hour
	}
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create mirror directory, %s, %w", outputPath, err)
	}
	return &Mirror{
		client:     client,
		s3Bucket:   bucket,
		outputPath: outputPath,
		interval:   interval,
	}, nil
}

func (m *Mirror) downloadObject(ctx context.Context, name string) error {
	downloader := manager.NewDownloader(m.client)

	target := filepath.Join(m.outputPath, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("unable to create directory for s3 download, %s, %w", name, err)
	}
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("unable to create file for s3 download, %s, %w", name, err)
	}
	defer f.Close()

	if _, err := downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(m.s3Bucket),
		Key:    aws.String(name),
	}); err != nil {
		_ = os.Remove(target)
		return fmt.Errorf("unable to download object from s3, %s, %w", name, err)
	}
	return nil
}

func (m *Mirror) getLocalFiles() (mapset.Set[string], error) {
	localFiles := mapset.NewSet[string]()
	err := filepath.WalkDir(m.outputPath, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(m.outputPath, p)
		if err != nil {
			return err
		}
		localFiles.Add(filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read directory, %s, %w", m.outputPath, err)
	}
	return localFiles, nil
}

func (m *Mirror) getRemoteFiles(ctx context.Context) (mapset.Set[string], error) {
	remoteFiles := mapset.NewSet[string]()
	paginator := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.s3Bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to list s3 objects, %s, %w", m.s3Bucket, err)
		}
		for object := range slices.Values(page.Contents) {
			name := aws.ToString(object.Key)
			if !Supported(name) {
				continue
			}
			remoteFiles.Add(name)
		}
	}

	if remoteFiles.Cardinality() == 0 {
		slog.Info("no remote images found", "bucket", m.s3Bucket)
	}
	return remoteFiles, nil
}

// Sync makes one pass: local files missing remotely are removed, remote files missing locally
// are downloaded. A failed download is logged and skipped.
func (m *Mirror) Sync(ctx context.Context) (SyncResult, error) {
	localFiles, err := m.getLocalFiles()
	if err != nil {
		return SyncResult{}, err
	}

	remoteFiles, err := m.getRemoteFiles(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	var result SyncResult
	toDelete := localFiles.Difference(remoteFiles).ToSlice()
	toDownload := remoteFiles.Difference(localFiles).ToSlice()
	slices.Sort(toDelete)
	slices.Sort(toDownload)

	if len(toDelete) > 0 {
		slog.Info("deleting local images", "count", len(toDelete), "names", toDelete)
		for name := range slices.Values(toDelete) {
			if err := os.Remove(filepath.Join(m.outputPath, filepath.FromSlash(name))); err != nil {
				slog.Warn("unable to remove local image", "name", name, "error", err)
				continue
			}
			result.Removed = append(result.Removed, name)
		}
	}
	if len(toDownload) > 0 {
		slog.Info("downloading images", "count", len(toDownload), "names", toDownload)
		for name := range slices.Values(toDownload) {
			if err := m.downloadObject(ctx, name); err != nil {
				slog.Warn("error while downloading s3 object", "name", name, "error", err)
				continue
			}
			result.Added = append(result.Added, name)
		}
	}

	if result.Changed() && m.OnSync != nil {
		m.OnSync(result)
	}
	return result, nil
}

// Run syncs once immediately and then on every interval until ctx is done.
func (m *Mirror) Run(ctx context.Context) {
	m.syncOnce(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.syncOnce(ctx)
		}
	}
}

func (m *Mirror) syncOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()
	if _, err := m.Sync(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("error while syncing with remote", "error", err)
	}
}

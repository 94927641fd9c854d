package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aouyang1/betasalon/catalog"
)

var testDefaults = AppSettings{CarouselPeriodSeconds: 5, DefaultLang: "he"}

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := NewDatabase(dsn, testDefaults)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seededDatabase(t *testing.T) (*Database, *catalog.Catalog) {
	t.Helper()
	c, err := catalog.Load()
	require.NoError(t, err)
	db := newTestDatabase(t)
	require.NoError(t, db.SeedCatalog(c))
	return db, c
}

func TestSeedAndQueryGallery(t *testing.T) {
	db, c := seededDatabase(t)

	all, err := db.GetGalleryImages(catalog.NoFilter)
	require.NoError(t, err)
	require.Equal(t, c.Gallery, all)

	haircuts, err := db.GetGalleryImages(catalog.Haircut)
	require.NoError(t, err)
	require.Len(t, haircuts, 3)
	for _, img := range haircuts {
		require.Equal(t, catalog.Haircut, img.Category)
	}

	count, err := db.GetImageCount(catalog.Color)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	none, err := db.GetGalleryImages(catalog.Category("nails"))
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSeedIsRepeatable(t *testing.T) {
	db, c := seededDatabase(t)
	require.NoError(t, db.SeedCatalog(c))

	count, err := db.GetImageCount(catalog.NoFilter)
	require.NoError(t, err)
	require.Equal(t, len(c.Gallery), count)
}

func TestTestimonialsKeepOrder(t *testing.T) {
	db, c := seededDatabase(t)

	got, err := db.GetTestimonials()
	require.NoError(t, err)
	require.Equal(t, c.Testimonials, got)
}

func TestAppSettingsBootstrapAndUpdate(t *testing.T) {
	db := newTestDatabase(t)

	s, err := db.GetAppSettings()
	require.NoError(t, err)
	require.Equal(t, testDefaults, *s)

	s.CarouselPeriodSeconds = 8
	s.GalleryDefaultFilter = "salon"
	require.NoError(t, db.UpsertAppSettings(s))

	got, err := db.GetAppSettings()
	require.NoError(t, err)
	require.Equal(t, 8, got.CarouselPeriodSeconds)
	require.Equal(t, "salon", got.GalleryDefaultFilter)
}

func TestFileDatabaseCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "salon.db")
	db, err := NewDatabase(path, testDefaults)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.GetAppSettings()
	require.NoError(t, err)
	require.FileExists(t, path)
}

func TestPing(t *testing.T) {
	db := newTestDatabase(t)
	require.NoError(t, db.Ping(context.Background()))

	require.NoError(t, db.Close())
	require.Error(t, db.Ping(context.Background()))
}

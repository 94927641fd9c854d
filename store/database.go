// Package store keeps the site catalog and settings in sqlite. The catalog tables are reseeded
// from the compiled-in catalog on startup; only the settings row is meant to change at runtime.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/aouyang1/betasalon/catalog"
)

type Database struct {
	db       *sql.DB
	defaults AppSettings
}

// NewDatabase opens dsn (a file path or a sqlite "file:" URI) and creates the schema.
// defaults is written the first time settings are read.
func NewDatabase(dsn string, defaults AppSettings) (*Database, error) {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps in-memory databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{db: db, defaults: defaults}

	if err := database.createTable(); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return database, nil
}

func (d *Database) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS gallery_images (
		id       INTEGER NOT NULL PRIMARY KEY,
		src      TEXT NOT NULL,
		alt      TEXT NOT NULL,
		width    INTEGER NOT NULL,
		height   INTEGER NOT NULL,
		category TEXT NOT NULL,
		"order"  INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_gallery_category_order ON gallery_images(category, "order");
	CREATE TABLE IF NOT EXISTS testimonials (
		id      INTEGER NOT NULL PRIMARY KEY,
		name    TEXT NOT NULL,
		rating  INTEGER NOT NULL,
		text    TEXT NOT NULL,
		image   TEXT NOT NULL,
		"order" INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS app_settings (
		singleton INTEGER NOT NULL DEFAULT 1 CHECK (singleton = 1),
		carousel_period_seconds INTEGER NOT NULL,
		default_lang            TEXT NOT NULL,
		gallery_default_filter  TEXT NOT NULL,
		PRIMARY KEY (singleton)
	);
	`
	_, err := d.db.Exec(query)
	return err
}

// SeedCatalog replaces the gallery and testimonial rows with c, keeping catalog order.
func (d *Database) SeedCatalog(c *catalog.Catalog) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM gallery_images`); err != nil {
		return fmt.Errorf("failed to clear gallery images: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM testimonials`); err != nil {
		return fmt.Errorf("failed to clear testimonials: %w", err)
	}

	for i, img := range c.Gallery {
		_, err := tx.Exec(
			`INSERT INTO gallery_images (id, src, alt, width, height, category, "order") VALUES (?, ?, ?, ?, ?, ?, ?)`,
			img.ID, img.Src, img.Alt, img.Width, img.Height, string(img.Category), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert gallery image %d: %w", img.ID, err)
		}
	}

	for i, t := range c.Testimonials {
		_, err := tx.Exec(
			`INSERT INTO testimonials (id, name, rating, text, image, "order") VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.Name, t.Rating, t.Text, t.Image, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert testimonial %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

// GetGalleryImages returns images in display order, only those of category unless it is
// catalog.NoFilter.
func (d *Database) GetGalleryImages(category catalog.Category) ([]catalog.GalleryImage, error) {
	query := `
		SELECT id, src, alt, width, height, category
		FROM gallery_images
		WHERE (? = '' OR category = ?)
		ORDER BY "order" ASC
	`
	rows, err := d.db.Query(query, string(category), string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to query gallery images: %w", err)
	}
	defer rows.Close()

	var images []catalog.GalleryImage
	for rows.Next() {
		var img catalog.GalleryImage
		var cat string
		if err := rows.Scan(&img.ID, &img.Src, &img.Alt, &img.Width, &img.Height, &cat); err != nil {
			return nil, fmt.Errorf("failed to scan gallery image: %w", err)
		}
		img.Category = catalog.Category(cat)
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return images, nil
}

func (d *Database) GetImageCount(category catalog.Category) (int, error) {
	query := `SELECT COUNT(*) FROM gallery_images WHERE (? = '' OR category = ?)`
	var count int
	err := d.db.QueryRow(query, string(category), string(category)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get image count: %w", err)
	}
	return count, nil
}

// GetTestimonials returns testimonials in display order.
func (d *Database) GetTestimonials() ([]catalog.Testimonial, error) {
	query := `
		SELECT id, name, rating, text, image
		FROM testimonials
		ORDER BY "order" ASC
	`
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query testimonials: %w", err)
	}
	defer rows.Close()

	var testimonials []catalog.Testimonial
	for rows.Next() {
		var t catalog.Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Rating, &t.Text, &t.Image); err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		testimonials = append(testimonials, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return testimonials, nil
}

func (d *Database) GetAppSettings() (*AppSettings, error) {
	const query = `
		SELECT carousel_period_seconds,
		       default_lang,
		       gallery_default_filter
		FROM app_settings
		WHERE singleton = 1
	`

	var s AppSettings
	err := d.db.QueryRow(query).Scan(&s.CarouselPeriodSeconds, &s.DefaultLang, &s.GalleryDefaultFilter)
	if err == sql.ErrNoRows {
		// Bootstrap defaults if no settings row exists yet
		defaults := d.defaults
		if err := d.UpsertAppSettings(&defaults); err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get app settings: %w", err)
	}
	return &s, nil
}

func (d *Database) UpsertAppSettings(s *AppSettings) error {
	const stmt = `
		INSERT INTO app_settings (
			singleton,
			carousel_period_seconds,
			default_lang,
			gallery_default_filter
		) VALUES (1, ?, ?, ?)
		ON CONFLICT(singleton) DO UPDATE SET
			carousel_period_seconds = excluded.carousel_period_seconds,
			default_lang            = excluded.default_lang,
			gallery_default_filter  = excluded.gallery_default_filter
	`

	_, err := d.db.Exec(stmt, s.CarouselPeriodSeconds, s.DefaultLang, s.GalleryDefaultFilter)
	if err != nil {
		return fmt.Errorf("upsert app settings: %w", err)
	}
	return nil
}

// Ping checks the connection is still usable.
func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *Database) Close() error {
	return d.db.Close()
}

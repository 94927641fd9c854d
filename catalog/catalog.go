// Package catalog holds the compiled-in site content: gallery images, testimonials, services,
// products, promotions, stylists, business hours and contact details.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFiles embed.FS

// Categories is the closed set of gallery categories, in filter-button order.
var Categories = []Category{Haircut, Styling, Color, Salon}

var categorySet = mapset.NewSet(Categories...)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return categorySet.Contains(c)
}

var (
	ErrUnknownCategory = errors.New("unknown gallery category")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrRating          = errors.New("rating must be between 0 and 5")
)

const maxRating = 5

// DefaultAbout is used for any About field left empty in the catalog.
var DefaultAbout = About{
	SalonName: "מספרה ביתא",
	History:   "מספרה ביתא נוסדה בשנת 2010 על ידי צוות של מעצבי שיער מנוסים שחלמו ליצור חוויית עיצוב שיער ייחודית ואישית. מאז הקמתה, המספרה הפכה לשם דבר בתחום עיצוב השיער בישראל.",
	Mission:   "המשימה שלנו היא להעניק לכל לקוח חוויה אישית ומקצועית, תוך שימוש בטכניקות החדשניות ביותר ומוצרי השיער האיכותיים ביותר.",
	Values: []string{
		"מקצועיות ללא פשרות",
		"שירות אישי ולבבי",
		"חדשנות מתמדת",
		"אחריות סביבתית",
		"יחס אישי לכל לקוח",
	},
}

// WithDefaults returns a copy of a with empty fields filled from DefaultAbout.
func (a About) WithDefaults() About {
	if a.SalonName == "" {
		a.SalonName = DefaultAbout.SalonName
	}
	if a.History == "" {
		a.History = DefaultAbout.History
	}
	if a.Mission == "" {
		a.Mission = DefaultAbout.Mission
	}
	if len(a.Values) == 0 {
		a.Values = slices.Clone(DefaultAbout.Values)
	}
	return a
}

// Load decodes the embedded catalog files.
func Load() (*Catalog, error) {
	return LoadFS(dataFiles, "data")
}

// LoadFS decodes every .yaml file under dir into a single Catalog and validates it.
// Files are applied in lexical order; later files only overwrite the keys they define.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	c := &Catalog{}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", entry.Name(), err)
		}
	}

	c.About = c.About.WithDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks ids are unique, categories are known and ratings are in range.
func (c *Catalog) Validate() error {
	imageIDs := mapset.NewThreadUnsafeSet[int]()
	for _, img := range c.Gallery {
		if !img.Category.Valid() {
			return fmt.Errorf("gallery image %d: %w: %q", img.ID, ErrUnknownCategory, img.Category)
		}
		if !imageIDs.Add(img.ID) {
			return fmt.Errorf("gallery image %d: %w", img.ID, ErrDuplicateID)
		}
	}

	testimonialIDs := mapset.NewThreadUnsafeSet[int]()
	for _, t := range c.Testimonials {
		if t.Rating < 0 || t.Rating > maxRating {
			return fmt.Errorf("testimonial %d: %w, got %d", t.ID, ErrRating, t.Rating)
		}
		if !testimonialIDs.Add(t.ID) {
			return fmt.Errorf("testimonial %d: %w", t.ID, ErrDuplicateID)
		}
	}

	for _, h := range c.Hours {
		if h.Weekday < time.Sunday || h.Weekday > time.Saturday {
			return fmt.Errorf("business hours %q: invalid weekday %d", h.Day, h.Weekday)
		}
	}
	return nil
}

// Today returns the business hours entry for now's weekday, if any.
func (c *Catalog) Today(now time.Time) (BusinessHours, bool) {
	for _, h := range c.Hours {
		if h.Weekday == now.Weekday() {
			return h, true
		}
	}
	return BusinessHours{}, false
}

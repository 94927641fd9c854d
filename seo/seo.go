// Package seo builds page metadata and schema.org structured data.
package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/aouyang1/betasalon/catalog"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	Locale      string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	JSONLD      template.JS
}

// NewMeta fills the OpenGraph fields from title and description. path is joined to baseURL
// for the canonical link.
func NewMeta(baseURL, path, title, description, image, lang string) Meta {
	canonical := strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	return Meta{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       title,
			Description: description,
			Image:       absolute(baseURL, image),
			Type:        "website",
			Locale:      ogLocale(lang),
		},
	}
}

func ogLocale(lang string) string {
	switch lang {
	case "he":
		return "he_IL"
	case "en":
		return "en_US"
	}
	return lang
}

func absolute(baseURL, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(ref, "/")
}

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

var schemaDays = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// HairSalon returns a schema.org HairSalon payload for the salon's contact details and hours.
// Days whose hours are not "HH:MM - HH:MM" are treated as closed.
func HairSalon(baseURL, name, image string, info catalog.ContactInfo, hours []catalog.BusinessHours) map[string]any {
	m := map[string]any{
		"@context":  "https://schema.org",
		"@type":     "HairSalon",
		"name":      name,
		"url":       baseURL,
		"telephone": info.Phone,
		"email":     info.Email,
		"address": map[string]any{
			"@type":          "PostalAddress",
			"streetAddress":  info.Address,
			"addressCountry": "IL",
		},
		"geo": map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  info.Latitude,
			"longitude": info.Longitude,
		},
	}
	if image != "" {
		m["image"] = absolute(baseURL, image)
	}

	var same []string
	for _, s := range []string{info.Facebook, info.Instagram} {
		if s != "" {
			same = append(same, s)
		}
	}
	if len(same) > 0 {
		m["sameAs"] = same
	}

	var specs []map[string]any
	for _, h := range hours {
		opens, closes, ok := parseHours(h.Hours)
		if !ok || h.Weekday < time.Sunday || h.Weekday > time.Saturday {
			continue
		}
		specs = append(specs, map[string]any{
			"@type":     "OpeningHoursSpecification",
			"dayOfWeek": schemaDays[h.Weekday],
			"opens":     opens,
			"closes":    closes,
		})
	}
	if len(specs) > 0 {
		m["openingHoursSpecification"] = specs
	}
	return m
}

func parseHours(s string) (opens, closes string, ok bool) {
	from, to, found := strings.Cut(s, "-")
	if !found {
		return "", "", false
	}
	opens, ok1 := clock(strings.TrimSpace(from))
	closes, ok2 := clock(strings.TrimSpace(to))
	return opens, closes, ok1 && ok2
}

// clock normalises "9:00" to "09:00".
func clock(s string) (string, bool) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return "", false
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

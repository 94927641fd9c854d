// Package models tracks all api models for request and responses
package models

import "github.com/aouyang1/betasalon/catalog"

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type GalleryResponse struct {
	Category     catalog.Category       `json:"category"`
	Images       []catalog.GalleryImage `json:"images"`
	Total        int                    `json:"total"`
	CatalogTotal int                    `json:"catalog_total"`
}

// GalleryStateResponse is the visitor's navigator state, returned by the gallery routes to
// non-htmx callers.
type GalleryStateResponse struct {
	Filter       catalog.Category      `json:"filter"`
	ImageIDs     []int                 `json:"image_ids"`
	Open         bool                  `json:"open"`
	Selected     *catalog.GalleryImage `json:"selected,omitempty"`
	Position     int                   `json:"position,omitempty"`
	ScrollLocked bool                  `json:"scroll_locked"`
}

type TestimonialsResponse struct {
	Testimonials []catalog.Testimonial `json:"testimonials"`
	Total        int                   `json:"total"`
}

// CarouselStateResponse is the visitor's carousel state, returned by the testimonial routes
// to non-htmx callers.
type CarouselStateResponse struct {
	Index    int    `json:"index"`
	Autoplay bool   `json:"autoplay"`
	State    string `json:"state"`
	Total    int    `json:"total"`
}

type ServicesResponse struct {
	Highlights []catalog.Highlight       `json:"highlights"`
	Categories []catalog.ServiceCategory `json:"categories"`
	Products   []catalog.Product         `json:"products"`
	Promotions []catalog.Promotion       `json:"promotions"`
}

type UpdateSettingsRequest struct {
	CarouselPeriodSeconds int    `json:"carousel_period_seconds"`
	DefaultLang           string `json:"default_lang"`
	GalleryDefaultFilter  string `json:"gallery_default_filter"`
}

type ContactResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type NewsletterResponse struct {
	Subscribed bool   `json:"subscribed"`
	New        bool   `json:"new"`
	Message    string `json:"message,omitempty"`
}

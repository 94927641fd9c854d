package store

type AppSettings struct {
	CarouselPeriodSeconds int    `json:"carousel_period_seconds"`
	DefaultLang           string `json:"default_lang"`
	GalleryDefaultFilter  string `json:"gallery_default_filter"`
}

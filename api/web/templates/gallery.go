// Package templates holds the htmx fragment components and the page templates served by the
// web server.
package templates

import (
	"strconv"

	"github.com/a-h/templ"
)

// Translator resolves a UI string key for the current request's language.
type Translator func(key string) string

type FilterOption struct {
	Category string
	Label    string
	Active   bool
}

type Image struct {
	ID     int
	Src    string
	Alt    string
	Width  int
	Height int
}

type GalleryView struct {
	T       Translator
	RTL     bool
	Filters []FilterOption
	Images  []Image
	// Selected is the image shown in the viewer, nil when closed.
	Selected *Image
	// Position is the 1-based index of Selected within Images.
	Position int
}

// Gallery renders the filter bar, the thumbnail grid and, when an image is selected, the
// viewer. Every control swaps the whole #gallery element.
func Gallery(v GalleryView) templ.Component {
	return component(func(h *html) {
		h.raw(`<div id="gallery" class="gallery" hx-target="#gallery" hx-swap="outerHTML"`)
		h.attr("data-viewer-open", strconv.FormatBool(v.Selected != nil))
		h.raw(`>`)

		h.raw(`<div class="gallery-filters" role="toolbar">`)
		for _, f := range v.Filters {
			class := "filter-btn"
			if f.Active {
				class += " active"
			}
			h.raw(`<button type="button"`)
			h.attr("class", class)
			h.attr("aria-pressed", strconv.FormatBool(f.Active))
			h.attr("data-filter", f.Category)
			h.attr("hx-post", filterURL(f.Category))
			h.raw(`>`)
			h.text(f.Label)
			h.raw(`</button>`)
		}
		h.raw(`</div>`)

		if len(v.Images) == 0 {
			h.raw(`<p class="gallery-empty">`)
			h.text(v.T("gallery.empty"))
			h.raw(`</p>`)
		} else {
			h.raw(`<div class="gallery-grid">`)
			for _, img := range v.Images {
				h.raw(`<button type="button" class="gallery-item"`)
				h.intAttr("data-image-id", img.ID)
				h.attr("aria-label", v.T("gallery.open")+" "+img.Alt)
				h.attr("hx-post", openURL(img.ID))
				h.raw(`><img loading="lazy"`)
				h.attr("src", img.Src)
				h.attr("alt", img.Alt)
				if img.Width > 0 && img.Height > 0 {
					h.intAttr("width", img.Width)
					h.intAttr("height", img.Height)
				}
				h.raw(`></button>`)
			}
			h.raw(`</div>`)
		}

		if v.Selected != nil {
			lightbox(h, v)
		}
		h.raw(`</div>`)
	})
}

func lightbox(h *html, v GalleryView) {
	prev, next := "‹", "›"
	if v.RTL {
		prev, next = next, prev
	}

	h.raw(`<div class="lightbox" role="dialog" aria-modal="true" data-lightbox`)
	h.attr("aria-label", v.T("gallery.viewer"))
	h.intAttr("data-image-id", v.Selected.ID)
	h.raw(`>`)

	h.raw(`<button type="button" class="lightbox-close" hx-post="/ui/gallery/close"`)
	h.attr("aria-label", v.T("gallery.close"))
	h.raw(`>&times;</button>`)

	h.raw(`<button type="button" class="lightbox-prev" hx-post="/ui/gallery/previous"`)
	h.attr("aria-label", v.T("gallery.previous"))
	h.raw(`>`)
	h.text(prev)
	h.raw(`</button>`)

	h.raw(`<figure class="lightbox-figure"><img`)
	h.attr("src", v.Selected.Src)
	h.attr("alt", v.Selected.Alt)
	h.raw(`><figcaption>`)
	h.text(v.Selected.Alt)
	h.raw(` <span class="lightbox-position">`)
	h.text(strconv.Itoa(v.Position) + " / " + strconv.Itoa(len(v.Images)))
	h.raw(`</span></figcaption></figure>`)

	h.raw(`<button type="button" class="lightbox-next" hx-post="/ui/gallery/next"`)
	h.attr("aria-label", v.T("gallery.next"))
	h.raw(`>`)
	h.text(next)
	h.raw(`</button>`)

	h.raw(`</div>`)
}

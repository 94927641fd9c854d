package templates

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

type Testimonial struct {
	Name   string
	Text   string
	Image  string
	Rating int
}

type TestimonialsView struct {
	T        Translator
	RTL      bool
	Items    []Testimonial
	Index    int
	Autoplay bool
}

// Testimonials renders the carousel. While autoplaying it connects to the stream, which swaps
// TestimonialBody on every tick; once the visitor takes over, the stream is dropped.
func Testimonials(v TestimonialsView) templ.Component {
	return component(func(h *html) {
		h.raw(`<div id="testimonials" class="testimonials" hx-target="#testimonials" hx-swap="outerHTML"`)
		h.attr("data-autoplay", strconv.FormatBool(v.Autoplay))
		if v.Autoplay && len(v.Items) > 0 {
			h.raw(` hx-ext="sse" sse-connect="/ui/testimonials/stream"`)
		}
		h.raw(`>`)
		if len(v.Items) == 0 {
			h.raw(`</div>`)
			return
		}

		prev, next := "‹", "›"
		if v.RTL {
			prev, next = next, prev
		}
		h.raw(`<button type="button" class="carousel-prev" hx-post="/ui/testimonials/previous"`)
		h.attr("aria-label", v.T("testimonials.previous"))
		h.raw(`>`)
		h.text(prev)
		h.raw(`</button>`)

		h.raw(`<div class="testimonial-body" sse-swap="testimonial" hx-swap="innerHTML" hx-target="this">`)
		body(h, v)
		h.raw(`</div>`)

		h.raw(`<button type="button" class="carousel-next" hx-post="/ui/testimonials/next"`)
		h.attr("aria-label", v.T("testimonials.next"))
		h.raw(`>`)
		h.text(next)
		h.raw(`</button>`)
		h.raw(`</div>`)
	})
}

// TestimonialBody is the part of the carousel replaced by stream updates.
func TestimonialBody(v TestimonialsView) templ.Component {
	return component(func(h *html) {
		if len(v.Items) == 0 {
			return
		}
		body(h, v)
	})
}

func body(h *html, v TestimonialsView) {
	if v.Index < 0 || v.Index >= len(v.Items) {
		v.Index = 0
	}
	item := v.Items[v.Index]

	h.raw(`<blockquote class="testimonial"`)
	h.intAttr("data-index", v.Index)
	h.raw(`>`)
	if item.Image != "" {
		h.raw(`<img class="testimonial-avatar" loading="lazy"`)
		h.attr("src", item.Image)
		h.attr("alt", item.Name)
		h.raw(`>`)
	}
	h.raw(`<div class="testimonial-rating"`)
	h.attr("aria-label", v.T("testimonials.rating")+" "+strconv.Itoa(item.Rating)+"/5")
	h.raw(`>`)
	h.text(stars(item.Rating))
	h.raw(`</div><p class="testimonial-text">`)
	h.text(item.Text)
	h.raw(`</p><footer class="testimonial-name">`)
	h.text(item.Name)
	h.raw(`</footer></blockquote>`)

	h.raw(`<div class="carousel-dots">`)
	for i := range v.Items {
		class := "carousel-dot"
		if i == v.Index {
			class += " active"
		}
		h.raw(`<button type="button" hx-target="#testimonials" hx-swap="outerHTML"`)
		h.attr("class", class)
		h.attr("hx-post", gotoURL(i))
		h.attr("aria-label", v.T("testimonials.goto")+" "+strconv.Itoa(i+1))
		h.attr("aria-current", strconv.FormatBool(i == v.Index))
		h.raw(`></button>`)
	}
	h.raw(`</div>`)
}

func stars(rating int) string {
	rating = min(max(rating, 0), 5)
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

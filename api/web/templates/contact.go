package templates

import (
	"strconv"
	"time"

	"github.com/a-h/templ"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// StatusView is a transient outcome message removed by the page script after ClearAfter.
type StatusView struct {
	Kind       string
	Message    string
	ClearAfter time.Duration
}

type ContactFormView struct {
	T       Translator
	Name    string
	Email   string
	Phone   string
	Message string
	// Errors maps a field name to its translated message.
	Errors map[string]string
	Status *StatusView
}

type field struct {
	name        string
	kind        string
	label       string
	placeholder string
	value       string
}

func ContactForm(v ContactFormView) templ.Component {
	return component(func(h *html) {
		h.raw(`<form id="contact-form" class="contact-form" method="post" action="/contact" novalidate`)
		h.raw(` hx-post="/contact" hx-target="this" hx-swap="outerHTML" hx-disabled-elt="find button[type='submit']">`)

		fields := []field{
			{"name", "text", "contact.name", "contact.name_placeholder", v.Name},
			{"email", "email", "contact.email", "contact.email_placeholder", v.Email},
			{"phone", "tel", "contact.phone", "contact.phone_placeholder", v.Phone},
			{"message", "textarea", "contact.message", "contact.message_placeholder", v.Message},
		}
		for _, f := range fields {
			id := "contact-" + f.name
			msg, invalid := v.Errors[f.name]

			h.raw(`<div class="form-field">`)
			h.raw(`<label`)
			h.attr("for", id)
			h.raw(`>`)
			h.text(v.T(f.label))
			h.raw(`</label>`)

			if f.kind == "textarea" {
				h.raw(`<textarea rows="5"`)
			} else {
				h.raw(`<input`)
				h.attr("type", f.kind)
			}
			h.attr("id", id)
			h.attr("name", f.name)
			h.attr("placeholder", v.T(f.placeholder))
			h.attr("aria-invalid", strconv.FormatBool(invalid))
			if f.kind == "textarea" {
				h.raw(`>`)
				h.text(f.value)
				h.raw(`</textarea>`)
			} else {
				h.attr("value", f.value)
				h.raw(`>`)
			}

			if invalid {
				h.raw(`<p class="field-error"`)
				h.attr("data-field", f.name)
				h.raw(`>`)
				h.text(msg)
				h.raw(`</p>`)
			}
			h.raw(`</div>`)
		}

		h.raw(`<button type="submit" class="btn btn-primary">`)
		h.raw(`<span class="when-idle">`)
		h.text(v.T("contact.submit"))
		h.raw(`</span><span class="when-busy">`)
		h.text(v.T("contact.sending"))
		h.raw(`</span></button>`)

		if v.Status != nil {
			status(h, *v.Status)
		}
		h.raw(`</form>`)
	})
}

func Status(v StatusView) templ.Component {
	return component(func(h *html) { status(h, v) })
}

func status(h *html, v StatusView) {
	h.raw(`<div role="status"`)
	h.attr("class", "form-status form-status-"+v.Kind)
	h.attr("data-status", v.Kind)
	if v.ClearAfter > 0 {
		h.attr("data-clear-after", strconv.FormatInt(v.ClearAfter.Milliseconds(), 10))
	}
	h.raw(`>`)
	h.text(v.Message)
	h.raw(`</div>`)
}

type NewsletterView struct {
	T      Translator
	Email  string
	Error  string
	Status *StatusView
}

func NewsletterForm(v NewsletterView) templ.Component {
	return component(func(h *html) {
		h.raw(`<form id="newsletter-form" class="newsletter-form" method="post" action="/newsletter"`)
		h.raw(` hx-post="/newsletter" hx-target="this" hx-swap="outerHTML">`)
		h.raw(`<input type="email" name="email" required`)
		h.attr("placeholder", v.T("newsletter.placeholder"))
		h.attr("value", v.Email)
		h.attr("aria-invalid", strconv.FormatBool(v.Error != ""))
		h.raw(`><button type="submit" class="btn btn-primary">`)
		h.text(v.T("newsletter.submit"))
		h.raw(`</button>`)
		if v.Error != "" {
			h.raw(`<p class="field-error" data-field="email">`)
			h.text(v.Error)
			h.raw(`</p>`)
		}
		if v.Status != nil {
			status(h, *v.Status)
		}
		h.raw(`</form>`)
	})
}

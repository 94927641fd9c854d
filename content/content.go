// Package content renders the salon's narrative text (history, mission, values) from markdown.
package content

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/aouyang1/betasalon/catalog"
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: newNarrativePolicy(),
	}
}

func newNarrativePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("dir").OnElements("p", "span", "div")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// Render converts markdown to sanitized HTML.
func (r *Renderer) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("content: convert markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

type About struct {
	SalonName string
	History   template.HTML
	Mission   template.HTML
	Values    []template.HTML
}

// RenderAbout renders each narrative field of a, with empty fields taking catalog defaults.
func (r *Renderer) RenderAbout(a catalog.About) (About, error) {
	a = a.WithDefaults()
	out := About{SalonName: a.SalonName}
	fields := []struct {
		src string
		dst *template.HTML
	}{
		{a.History, &out.History},
		{a.Mission, &out.Mission},
	}
	for _, f := range fields {
		h, err := r.Render(f.src)
		if err != nil {
			return About{}, err
		}
		*f.dst = h
	}
	for _, v := range a.Values {
		h, err := r.Render(v)
		if err != nil {
			return About{}, err
		}
		out.Values = append(out.Values, h)
	}
	return out, nil
}

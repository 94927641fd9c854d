// Package i18n holds the UI strings for the supported languages and the per-language
// formatting rules (text direction, number grouping).
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed locales/*.json
var localeFiles embed.FS

// Supported languages, fallback first.
var Supported = []string{"he", "en"}

var rtl = map[string]bool{"he": true}

type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported []string
	tags      []language.Tag
	matcher   language.Matcher
	printers  map[string]*message.Printer
}

// Load reads the embedded locale files. fallback must be one of Supported; an unknown value
// falls back to the first supported language.
func Load(fallback string) (*Bundle, error) {
	if !slices.Contains(Supported, fallback) {
		fallback = Supported[0]
	}

	// the matcher prefers its first tag when nothing matches
	supported := append([]string{fallback}, slices.DeleteFunc(slices.Clone(Supported), func(l string) bool {
		return l == fallback
	})...)

	b := &Bundle{
		dict:      map[string]map[string]string{},
		fallback:  fallback,
		supported: supported,
		printers:  map[string]*message.Printer{},
	}
	for _, l := range supported {
		raw, err := localeFiles.ReadFile(path.Join("locales", l+".json"))
		if err != nil {
			return nil, fmt.Errorf("load locale %s: %w", l, err)
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m

		tag := language.MustParse(l)
		b.tags = append(b.tags, tag)
		b.printers[l] = message.NewPrinter(tag)
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

func (b *Bundle) Languages() []string { return slices.Clone(b.supported) }

// T returns translation for key in lang, falling back to default and finally key.
func (b *Bundle) T(lang, key string) string {
	if m, ok := b.dict[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := b.dict[b.fallback][key]; ok {
		return v
	}
	return key
}

// Resolve chooses the best supported language for an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	if lang, ok := b.Match(acceptLang); ok {
		return lang
	}
	return b.fallback
}

// Match is Resolve without the fallback: ok is false when nothing in the header is supported.
func (b *Bundle) Match(acceptLang string) (lang string, ok bool) {
	if acceptLang == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return "", false
	}
	return b.supported[idx], true
}

// Normalize returns lang when it is supported and the fallback otherwise.
func (b *Bundle) Normalize(lang string) string {
	if _, ok := b.dict[lang]; ok {
		return lang
	}
	return b.fallback
}

func IsRTL(lang string) bool { return rtl[lang] }

// Dir is the value of the html dir attribute for lang.
func Dir(lang string) string {
	if IsRTL(lang) {
		return "rtl"
	}
	return "ltr"
}

func (b *Bundle) printer(lang string) *message.Printer {
	if p, ok := b.printers[lang]; ok {
		return p
	}
	return b.printers[b.fallback]
}

// Number formats n with the grouping rules of lang.
func (b *Bundle) Number(lang string, n int) string {
	return b.printer(lang).Sprintf("%d", n)
}

// Shekels formats a whole-shekel amount, e.g. "₪1,200".
func (b *Bundle) Shekels(lang string, n int) string {
	return "₪" + b.Number(lang, n)
}

// Agorot formats an amount given in agorot with two decimals, e.g. "₪89.90".
func (b *Bundle) Agorot(lang string, agorot int64) string {
	return "₪" + b.printer(lang).Sprintf("%.2f", float64(agorot)/100)
}

package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
)

func filterURL(category string) string {
	if category == "" {
		category = "all"
	}
	return "/ui/gallery/filter/" + url.PathEscape(category)
}

func openURL(id int) string {
	return fmt.Sprintf("/ui/gallery/open/%d", id)
}

func gotoURL(index int) string {
	return fmt.Sprintf("/ui/testimonials/goto/%d", index)
}

// html accumulates the first write error so components can write without checking each call.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (h *html) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *html) intAttr(name string, v int) {
	h.attr(name, strconv.Itoa(v))
}

func component(fn func(h *html)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(h)
		return h.err
	})
}

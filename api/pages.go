package api

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/aouyang1/betasalon/api/web/templates"
	"github.com/aouyang1/betasalon/catalog"
	"github.com/aouyang1/betasalon/content"
	"github.com/aouyang1/betasalon/gallery"
	"github.com/aouyang1/betasalon/i18n"
	"github.com/aouyang1/betasalon/seo"
)

// devTemplatesDir is read instead of the embedded copy in dev mode.
const devTemplatesDir = "api/web/templates"

// pageData is the root value of every page template.
type pageData struct {
	bundle *i18n.Bundle

	Lang      string
	Dir       string
	Page      string
	Meta      seo.Meta
	Languages []string
	Site      *catalog.Catalog
	About     content.About
	Today     int
	Year      int

	Mount        uint64
	Gallery      template.HTML
	Testimonials template.HTML
	ContactForm  template.HTML
	Newsletter   template.HTML
}

func (p *pageData) T(key string) string { return p.bundle.T(p.Lang, key) }

func (p *pageData) Number(n int) string { return p.bundle.Number(p.Lang, n) }

func (p *pageData) Shekels(n int) string { return p.bundle.Shekels(p.Lang, n) }

func (p *pageData) Agorot(n int64) string { return p.bundle.Agorot(p.Lang, n) }

func (ws *WebServer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"img": func(src string) string {
			return ws.imageURL(context.Background(), src)
		},
		"int": func(d time.Weekday) int { return int(d) },
	}
}

func (ws *WebServer) templatesFS() (fs.FS, error) {
	if ws.opts.Dev {
		if _, err := os.Stat(devTemplatesDir); err == nil {
			return os.DirFS(devTemplatesDir), nil
		}
	}
	sub, err := fs.Sub(webFiles, "web/templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	return sub, nil
}

// parsePages builds one template set per page: the layout, the shared partials and the page's
// "content" block.
func (ws *WebServer) parsePages() (map[string]*template.Template, error) {
	fsys, err := ws.templatesFS()
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(ws.templateFuncs()).
			ParseFS(fsys, "layout.html", "partials.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s page: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

func (ws *WebServer) page(name string) (*template.Template, error) {
	if !ws.opts.Dev {
		tmpl, ok := ws.pages[name]
		if !ok {
			return nil, fmt.Errorf("unknown page %q", name)
		}
		return tmpl, nil
	}
	pages, err := ws.parsePages()
	if err != nil {
		return nil, err
	}
	return pages[name], nil
}

func (ws *WebServer) newPageData(c *gin.Context, page, path, titleKey string) *pageData {
	l := lang(c)
	now := ws.opts.Now()
	data := &pageData{
		bundle:    ws.bundle,
		Lang:      l,
		Dir:       i18n.Dir(l),
		Page:      page,
		Languages: ws.bundle.Languages(),
		Site:      ws.catalog,
		About:     ws.about,
		Today:     int(now.Weekday()),
		Year:      now.Year(),
	}

	name := data.T("site.name")
	title := name
	if titleKey != "" {
		title = data.T(titleKey) + " | " + name
	}
	var image string
	if len(ws.images) > 0 {
		image = ws.imageURL(c.Request.Context(), ws.images[0].Src)
	}
	data.Meta = seo.NewMeta(ws.opts.BaseURL, path, title, data.T("site.description"), image, l)
	data.Meta.JSONLD = seo.JSON(seo.HairSalon(ws.opts.BaseURL, name, image, ws.catalog.Contact, ws.catalog.Hours))

	data.Newsletter = ws.fragment(c, templates.NewsletterForm(templates.NewsletterView{T: ws.translator(c)}))
	return data
}

// fragment renders a component for embedding in a page template.
func (ws *WebServer) fragment(c *gin.Context, comp templ.Component) template.HTML {
	h, err := templ.ToGoHTML(c.Request.Context(), comp)
	if err != nil {
		slog.Error("failed to render fragment", "path", c.Request.URL.Path, "error", err)
		_ = c.Error(err)
		return ""
	}
	return h
}

func (ws *WebServer) renderPage(c *gin.Context, data *pageData) {
	tmpl, err := ws.page(data.Page)
	if err != nil {
		slog.Error("failed to load page template", "page", data.Page, "error", err)
		c.String(http.StatusInternalServerError, "Failed to load page")
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render page", "page", data.Page, "error", err)
		c.String(http.StatusInternalServerError, "Failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// renderFragment answers an htmx request with a single component.
func (ws *WebServer) renderFragment(c *gin.Context, status int, comp templ.Component) {
	var buf bytes.Buffer
	if err := comp.Render(c.Request.Context(), &buf); err != nil {
		slog.Error("failed to render fragment", "path", c.Request.URL.Path, "error", err)
		c.String(http.StatusInternalServerError, "Error: failed to render")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (ws *WebServer) translator(c *gin.Context) templates.Translator {
	l := lang(c)
	return func(key string) string { return ws.bundle.T(l, key) }
}

// handleHome renders the landing page. A full page load is a fresh mount of both widgets.
func (ws *WebServer) handleHome(c *gin.Context) {
	v := visitor(c)
	ws.mount(c, v)

	data := ws.newPageData(c, "home", "/", "")
	data.Mount = v.Generation()
	var view templates.GalleryView
	// the page starts unlocked, so transitions from the remount are not announced
	v.Gallery(func(n *gallery.Navigator) { view = ws.galleryView(c, n) })
	data.Gallery = ws.fragment(c, templates.Gallery(view))
	data.Testimonials = ws.fragment(c, templates.Testimonials(ws.testimonialsView(c, v.Carousel())))

	ws.renderPage(c, data)
}

// leaveHome unmounts the widgets when the visitor navigates to a page that does not show them.
func leaveHome(c *gin.Context) {
	v := visitor(c)
	v.Unmount()
	// the new page starts unlocked
	v.PendingEvents()
}

func (ws *WebServer) handleServices(c *gin.Context) {
	leaveHome(c)
	ws.renderPage(c, ws.newPageData(c, "services", "/services", "nav.services"))
}

func (ws *WebServer) handleContactPage(c *gin.Context) {
	leaveHome(c)
	data := ws.newPageData(c, "contact", "/contact", "nav.contact")
	data.ContactForm = ws.fragment(c, templates.ContactForm(templates.ContactFormView{T: ws.translator(c)}))
	ws.renderPage(c, data)
}

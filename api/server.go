// Package api is the salon web server: full pages, htmx fragments for the gallery and
// testimonial widgets, the contact forms and a small JSON api.
package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/betasalon/carousel"
	"github.com/aouyang1/betasalon/catalog"
	"github.com/aouyang1/betasalon/contact"
	"github.com/aouyang1/betasalon/content"
	"github.com/aouyang1/betasalon/i18n"
	"github.com/aouyang1/betasalon/media"
	"github.com/aouyang1/betasalon/session"
	"github.com/aouyang1/betasalon/store"
)

//go:embed web/templates/*.html web/static
var webFiles embed.FS

// Deps are the collaborators the server is built from.
type Deps struct {
	DB         *store.Database
	Catalog    *catalog.Catalog
	Bundle     *i18n.Bundle
	Content    *content.Renderer
	Media      media.Resolver
	Sessions   *session.Registry
	Submitter  contact.Submitter
	Newsletter *contact.Newsletter
}

type Options struct {
	// Dev reparses the page templates on every request.
	Dev     bool
	BaseURL string
	// PublicDir is served under MediaPrefix when set.
	PublicDir   string
	MediaPrefix string

	StatusClearAfter time.Duration
	StaticMaxAge     time.Duration
	// VisitorMaxAge is the lifetime of the visitor and language cookies.
	VisitorMaxAge time.Duration

	// CarouselOptions are applied to every mounted carousel, after the period.
	CarouselOptions []carousel.Option
	// Now defaults to time.Now.
	Now func() time.Time
}

type WebServer struct {
	router *gin.Engine

	db         *store.Database
	catalog    *catalog.Catalog
	bundle     *i18n.Bundle
	media      media.Resolver
	sessions   *session.Registry
	submitter  contact.Submitter
	newsletter *contact.Newsletter
	opts       Options

	// the catalog tables are seeded once at startup so their rows are read once too
	images       []catalog.GalleryImage
	testimonials []catalog.Testimonial
	about        content.About

	pages map[string]*template.Template
}

var pageNames = []string{"home", "services", "contact"}

func NewWebServer(deps Deps, opts Options) (*WebServer, error) {
	if deps.DB == nil || deps.Catalog == nil || deps.Bundle == nil || deps.Sessions == nil {
		return nil, errors.New("web server requires a database, catalog, bundle and session registry")
	}
	if deps.Content == nil {
		deps.Content = content.NewRenderer()
	}
	if opts.MediaPrefix == "" {
		opts.MediaPrefix = "/images"
	}
	if deps.Media == nil {
		deps.Media = media.LocalResolver{Prefix: opts.MediaPrefix}
	}
	if deps.Submitter == nil {
		deps.Submitter = contact.SimulatedSubmitter{}
	}
	if deps.Newsletter == nil {
		deps.Newsletter = contact.NewNewsletter()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.VisitorMaxAge <= 0 {
		opts.VisitorMaxAge = 30 * 24 * time.Hour
	}

	ws := &WebServer{
		db:         deps.DB,
		catalog:    deps.Catalog,
		bundle:     deps.Bundle,
		media:      deps.Media,
		sessions:   deps.Sessions,
		submitter:  deps.Submitter,
		newsletter: deps.Newsletter,
		opts:       opts,
	}

	var err error
	if ws.images, err = ws.db.GetGalleryImages(catalog.NoFilter); err != nil {
		return nil, fmt.Errorf("failed to load gallery images: %w", err)
	}
	if ws.testimonials, err = ws.db.GetTestimonials(); err != nil {
		return nil, fmt.Errorf("failed to load testimonials: %w", err)
	}
	if ws.about, err = deps.Content.RenderAbout(ws.catalog.About); err != nil {
		return nil, fmt.Errorf("failed to render about section: %w", err)
	}
	if ws.pages, err = ws.parsePages(); err != nil {
		return nil, err
	}

	ws.router = gin.New()
	ws.router.Use(gin.Recovery(), requestLogger())
	if err := ws.setupRoutes(); err != nil {
		return nil, err
	}
	return ws, nil
}

// Handler returns the router for use in an http.Server.
func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

// Close tears down every visitor's widgets.
func (ws *WebServer) Close() {
	ws.sessions.Close()
}

func (ws *WebServer) setupRoutes() error {
	// Create filesystem for static files (strip "web/" prefix)
	staticFS, err := fs.Sub(webFiles, "web/static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}

	ws.router.Use(cacheControl("/static/", ws.opts.StaticMaxAge))
	ws.router.StaticFS("/static", http.FS(staticFS))
	if ws.opts.PublicDir != "" {
		ws.router.Static(ws.opts.MediaPrefix, ws.opts.PublicDir)
	}

	favicon := func(c *gin.Context) {
		data, err := webFiles.ReadFile("web/static/images/favicon.svg")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", data)
	}
	ws.router.GET("/favicon.ico", favicon)
	ws.router.GET("/favicon.svg", favicon)

	ws.router.GET("/healthz", ws.handleHealth)

	// pages and widget fragments need a visitor and a language
	site := ws.router.Group("/", ws.visitorMiddleware(), ws.languageMiddleware())
	site.GET("/", ws.handleHome)
	site.GET("/services", ws.handleServices)
	site.GET("/contact", ws.handleContactPage)
	site.POST("/contact", ws.handleContact)
	site.POST("/newsletter", ws.handleNewsletter)

	ui := site.Group("/ui")
	ui.GET("/gallery", ws.handleGallery)
	ui.POST("/gallery/filter/:category", ws.handleGalleryFilter)
	ui.POST("/gallery/open/:id", ws.handleGalleryOpen)
	ui.POST("/gallery/close", ws.handleGalleryClose)
	ui.POST("/gallery/next", ws.handleGalleryNext)
	ui.POST("/gallery/previous", ws.handleGalleryPrevious)
	ui.POST("/gallery/key/:key", ws.handleGalleryKey)

	ui.GET("/testimonials", ws.handleTestimonials)
	ui.POST("/testimonials/next", ws.handleTestimonialNext)
	ui.POST("/testimonials/previous", ws.handleTestimonialPrevious)
	ui.POST("/testimonials/goto/:index", ws.handleTestimonialGoTo)
	ui.GET("/testimonials/stream", ws.handleTestimonialStream)
	ui.POST("/unmount", ws.handleUnmount)

	// API routes
	ws.router.GET("/api/gallery", ws.handleAPIGallery)
	ws.router.GET("/api/testimonials", ws.handleAPITestimonials)
	ws.router.GET("/api/services", ws.handleAPIServices)
	ws.router.GET("/settings", ws.handleGetSettings)
	ws.router.PUT("/settings", ws.handleUpdateSettings)
	return nil
}

// imageURL resolves a catalog image reference, falling back to the reference itself.
func (ws *WebServer) imageURL(ctx context.Context, src string) string {
	u, err := ws.media.URL(ctx, src)
	if err != nil {
		slog.Warn("unable to resolve image", "src", src, "error", err)
		return src
	}
	return u
}

func (ws *WebServer) settings() store.AppSettings {
	s, err := ws.db.GetAppSettings()
	if err != nil {
		slog.Error("failed to get settings, using defaults", "error", err)
		return store.AppSettings{
			CarouselPeriodSeconds: int(carousel.DefaultPeriod / time.Second),
			DefaultLang:           ws.bundle.Fallback(),
		}
	}
	return *s
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// setTriggers announces scroll lock transitions to the page.
func setTriggers(c *gin.Context, events []string) {
	if len(events) == 0 {
		return
	}
	c.Header("HX-Trigger", strings.Join(events, ", "))
}

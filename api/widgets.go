package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/betasalon/api/models"
	"github.com/aouyang1/betasalon/api/web/templates"
	"github.com/aouyang1/betasalon/carousel"
	"github.com/aouyang1/betasalon/catalog"
	"github.com/aouyang1/betasalon/gallery"
	"github.com/aouyang1/betasalon/i18n"
	"github.com/aouyang1/betasalon/session"
)

const allFilter = "all"

// mount gives the visitor fresh widgets built from the current settings.
func (ws *WebServer) mount(c *gin.Context, v *session.Visitor) {
	s := ws.settings()
	filter := catalog.Category(s.GalleryDefaultFilter)
	if !filter.Valid() {
		filter = catalog.NoFilter
	}
	period := time.Duration(s.CarouselPeriodSeconds) * time.Second
	if period <= 0 {
		period = carousel.DefaultPeriod
	}
	v.Mount(session.Widgets{
		Images:          ws.images,
		Filter:          filter,
		Direction:       direction(c),
		Testimonials:    len(ws.testimonials),
		CarouselPeriod:  period,
		CarouselOptions: ws.opts.CarouselOptions,
	})
}

// direction is the reading order of the request's language.
func direction(c *gin.Context) gallery.Direction {
	if i18n.IsRTL(lang(c)) {
		return gallery.RTL
	}
	return gallery.LTR
}

// ensureMounted mounts the widgets for fragment requests arriving without a prior page load.
func (ws *WebServer) ensureMounted(c *gin.Context) *session.Visitor {
	v := visitor(c)
	if !v.Mounted() {
		ws.mount(c, v)
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	if isHTMX(c) {
		c.String(http.StatusBadRequest, "Error: "+msg)
		return
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
}

// parseCategory maps a route or query value to a filter; "all" and "" clear it.
func parseCategory(raw string) (catalog.Category, bool) {
	if raw == "" || raw == allFilter {
		return catalog.NoFilter, true
	}
	category := catalog.Category(raw)
	return category, category.Valid()
}

func (ws *WebServer) galleryView(c *gin.Context, n *gallery.Navigator) templates.GalleryView {
	t := ws.translator(c)
	ctx := c.Request.Context()

	filters := make([]templates.FilterOption, 0, len(catalog.Categories)+1)
	filters = append(filters, templates.FilterOption{
		Category: "",
		Label:    t("gallery.filter.all"),
		Active:   n.Filter() == catalog.NoFilter,
	})
	for _, category := range catalog.Categories {
		filters = append(filters, templates.FilterOption{
			Category: string(category),
			Label:    t("gallery.filter." + string(category)),
			Active:   n.Filter() == category,
		})
	}

	view := templates.GalleryView{
		T:       t,
		RTL:     i18n.IsRTL(lang(c)),
		Filters: filters,
	}
	selected := n.Selected()
	for i, img := range n.View() {
		item := templates.Image{
			ID:     img.ID,
			Src:    ws.imageURL(ctx, img.Src),
			Alt:    img.Alt,
			Width:  img.Width,
			Height: img.Height,
		}
		view.Images = append(view.Images, item)
		if selected != nil && selected.ID == img.ID {
			view.Selected = &item
			view.Position = i + 1
		}
	}
	return view
}

func galleryState(n *gallery.Navigator) models.GalleryStateResponse {
	state := models.GalleryStateResponse{
		Filter:   n.Filter(),
		ImageIDs: []int{},
		Open:     n.IsOpen(),
		Selected: n.Selected(),
	}
	for i, img := range n.View() {
		state.ImageIDs = append(state.ImageIDs, img.ID)
		if state.Selected != nil && state.Selected.ID == img.ID {
			state.Position = i + 1
		}
	}
	return state
}

// galleryAction applies action to the visitor's navigator and answers with the re-rendered
// gallery, announcing any scroll lock change.
func (ws *WebServer) galleryAction(c *gin.Context, action func(n *gallery.Navigator)) {
	v := ws.ensureMounted(c)

	var view templates.GalleryView
	var state models.GalleryStateResponse
	events := v.Gallery(func(n *gallery.Navigator) {
		// a ?lang= switch on a fragment request changes the arrow mapping too
		n.SetDirection(direction(c))
		action(n)
		view = ws.galleryView(c, n)
		state = galleryState(n)
	})
	setTriggers(c, events)

	if isHTMX(c) {
		ws.renderFragment(c, http.StatusOK, templates.Gallery(view))
		return
	}
	state.ScrollLocked = v.ScrollLocked()
	if state.ImageIDs == nil {
		state.ImageIDs = []int{}
	}
	c.JSON(http.StatusOK, state)
}

func (ws *WebServer) handleGallery(c *gin.Context) {
	raw, set := c.GetQuery("filter")
	category, ok := parseCategory(raw)
	if !ok {
		badRequest(c, "unknown gallery category: "+raw)
		return
	}
	ws.galleryAction(c, func(n *gallery.Navigator) {
		if set {
			n.SetFilter(category)
		}
	})
}

func (ws *WebServer) handleGalleryFilter(c *gin.Context) {
	raw := c.Param("category")
	category, ok := parseCategory(raw)
	if !ok {
		badRequest(c, "unknown gallery category: "+raw)
		return
	}
	ws.galleryAction(c, func(n *gallery.Navigator) {
		if category == catalog.NoFilter {
			n.SetFilter(catalog.NoFilter)
			return
		}
		n.ToggleFilter(category)
	})
}

func (ws *WebServer) handleGalleryOpen(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid image id: "+c.Param("id"))
		return
	}
	ws.galleryAction(c, func(n *gallery.Navigator) {
		if !n.Open(id) {
			slog.Debug("image not in current view", "id", id, "filter", n.Filter())
		}
	})
}

func (ws *WebServer) handleGalleryClose(c *gin.Context) {
	ws.galleryAction(c, (*gallery.Navigator).Close)
}

func (ws *WebServer) handleGalleryNext(c *gin.Context) {
	ws.galleryAction(c, (*gallery.Navigator).Next)
}

func (ws *WebServer) handleGalleryPrevious(c *gin.Context) {
	ws.galleryAction(c, (*gallery.Navigator).Previous)
}

func (ws *WebServer) handleGalleryKey(c *gin.Context) {
	key := gallery.Key(c.Param("key"))
	ws.galleryAction(c, func(n *gallery.Navigator) { n.HandleKey(key) })
}

// handleUnmount tears down the widgets when the home page is left. The mount generation
// rendered into the page guards against a notice arriving after a newer page load.
func (ws *WebServer) handleUnmount(c *gin.Context) {
	v := visitor(c)
	generation, err := strconv.ParseUint(c.PostForm("mount"), 10, 64)
	if err != nil {
		badRequest(c, "invalid mount generation: "+c.PostForm("mount"))
		return
	}
	if !v.Release(generation) {
		slog.Debug("stale unmount ignored", "visitor", v.ID, "mount", generation, "current", v.Generation())
	}
	setTriggers(c, v.PendingEvents())
	c.Status(http.StatusNoContent)
}

func (ws *WebServer) testimonialsView(c *gin.Context, car *carousel.Carousel) templates.TestimonialsView {
	ctx := c.Request.Context()
	view := templates.TestimonialsView{
		T:     ws.translator(c),
		RTL:   i18n.IsRTL(lang(c)),
		Items: make([]templates.Testimonial, 0, len(ws.testimonials)),
	}
	for _, t := range ws.testimonials {
		view.Items = append(view.Items, templates.Testimonial{
			Name:   t.Name,
			Text:   t.Text,
			Image:  ws.imageURL(ctx, t.Image),
			Rating: t.Rating,
		})
	}
	if car != nil {
		view.Index = car.Index()
		view.Autoplay = car.Autoplay()
	}
	return view
}

func (ws *WebServer) carouselState(car *carousel.Carousel) models.CarouselStateResponse {
	if car == nil {
		return models.CarouselStateResponse{State: carousel.Manual.String(), Total: len(ws.testimonials)}
	}
	return models.CarouselStateResponse{
		Index:    car.Index(),
		Autoplay: car.Autoplay(),
		State:    car.State().String(),
		Total:    car.Len(),
	}
}

// carouselAction applies action to the visitor's carousel and answers with the re-rendered
// carousel.
func (ws *WebServer) carouselAction(c *gin.Context, action func(car *carousel.Carousel) error) {
	v := ws.ensureMounted(c)
	car := v.Carousel()
	if car != nil {
		if err := action(car); err != nil {
			if errors.Is(err, carousel.ErrIndexOutOfRange) {
				badRequest(c, err.Error())
				return
			}
			slog.Error("carousel action failed", "error", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
			return
		}
	}

	if isHTMX(c) {
		ws.renderFragment(c, http.StatusOK, templates.Testimonials(ws.testimonialsView(c, car)))
		return
	}
	c.JSON(http.StatusOK, ws.carouselState(car))
}

func (ws *WebServer) handleTestimonials(c *gin.Context) {
	ws.carouselAction(c, func(*carousel.Carousel) error { return nil })
}

func (ws *WebServer) handleTestimonialNext(c *gin.Context) {
	ws.carouselAction(c, func(car *carousel.Carousel) error {
		car.Next()
		return nil
	})
}

func (ws *WebServer) handleTestimonialPrevious(c *gin.Context) {
	ws.carouselAction(c, func(car *carousel.Carousel) error {
		car.Previous()
		return nil
	})
}

func (ws *WebServer) handleTestimonialGoTo(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "invalid testimonial index: "+c.Param("index"))
		return
	}
	ws.carouselAction(c, func(car *carousel.Carousel) error { return car.GoTo(index) })
}

// handleTestimonialStream pushes the testimonial body on every autoplay tick until the client
// goes away or the carousel is torn down.
func (ws *WebServer) handleTestimonialStream(c *gin.Context) {
	v := ws.ensureMounted(c)
	car := v.Carousel()
	if car == nil {
		c.Status(http.StatusNoContent)
		return
	}

	updates, unsubscribe := car.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()
	ctx := c.Request.Context()
	base := ws.testimonialsView(c, nil)

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case index, ok := <-updates:
			if !ok {
				return false
			}
			view := base
			view.Index = index
			view.Autoplay = car.Autoplay()
			body := ws.fragment(c, templates.TestimonialBody(view))
			c.SSEvent("testimonial", string(body))
			return true
		}
	})
}

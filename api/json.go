package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/betasalon/api/models"
	"github.com/aouyang1/betasalon/catalog"
	"github.com/aouyang1/betasalon/store"
)

func (ws *WebServer) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := ws.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: fmt.Sprintf("database unavailable: %v", err)})
		return
	}
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

func (ws *WebServer) handleAPIGallery(c *gin.Context) {
	category, ok := parseCategory(c.Query("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown gallery category: " + c.Query("category")})
		return
	}
	images, err := ws.db.GetGalleryImages(category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get gallery images: %v", err)})
		return
	}
	catalogTotal, err := ws.db.GetImageCount(catalog.NoFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to count gallery images: %v", err)})
		return
	}
	ctx := c.Request.Context()
	for i := range images {
		images[i].Src = ws.imageURL(ctx, images[i].Src)
	}
	c.JSON(http.StatusOK, models.GalleryResponse{
		Category:     category,
		Images:       images,
		Total:        len(images),
		CatalogTotal: catalogTotal,
	})
}

func (ws *WebServer) handleAPITestimonials(c *gin.Context) {
	testimonials, err := ws.db.GetTestimonials()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get testimonials: %v", err)})
		return
	}
	c.JSON(http.StatusOK, models.TestimonialsResponse{Testimonials: testimonials, Total: len(testimonials)})
}

func (ws *WebServer) handleAPIServices(c *gin.Context) {
	c.JSON(http.StatusOK, models.ServicesResponse{
		Highlights: ws.catalog.Highlights,
		Categories: ws.catalog.Services,
		Products:   ws.catalog.Products,
		Promotions: ws.catalog.Promotions,
	})
}

func (ws *WebServer) handleGetSettings(c *gin.Context) {
	settings, err := ws.db.GetAppSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get settings: %v", err)})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// handleUpdateSettings stores new settings. They apply to widgets mounted afterwards.
func (ws *WebServer) handleUpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	if req.CarouselPeriodSeconds <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "carousel_period_seconds must be positive"})
		return
	}
	lang, ok := ws.supported(req.DefaultLang)
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("default_lang must be one of %v", ws.bundle.Languages())})
		return
	}
	filter := catalog.Category(req.GalleryDefaultFilter)
	if filter != catalog.NoFilter && !filter.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("gallery_default_filter must be empty or one of %v", catalog.Categories)})
		return
	}

	newSettings := &store.AppSettings{
		CarouselPeriodSeconds: req.CarouselPeriodSeconds,
		DefaultLang:           lang,
		GalleryDefaultFilter:  string(filter),
	}
	if err := ws.db.UpsertAppSettings(newSettings); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update settings: %v", err)})
		return
	}

	c.JSON(http.StatusOK, newSettings)
}

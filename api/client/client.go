package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/betasalon/api/models"
	"github.com/aouyang1/betasalon/catalog"
	"github.com/aouyang1/betasalon/contact"
	"github.com/aouyang1/betasalon/store"
)

// SiteClient talks to the salon server's JSON routes. It keeps cookies, so the gallery and
// carousel calls act on one visitor's widgets.
type SiteClient struct {
	baseURL string
	client  *http.Client
}

func NewSiteClient(baseURL string) *SiteClient {
	jar, _ := cookiejar.New(nil)
	return &SiteClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

func (sc *SiteClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, sc.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := sc.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		// the contact route reports failures in its own shape
		if out != nil {
			_ = json.Unmarshal(data, out)
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (sc *SiteClient) getJSON(ctx context.Context, path string, out any) error {
	return sc.do(ctx, http.MethodGet, path, nil, "", out)
}

func (sc *SiteClient) post(ctx context.Context, path string, out any) error {
	return sc.do(ctx, http.MethodPost, path, nil, "", out)
}

func (sc *SiteClient) Health(ctx context.Context) error {
	var resp models.HealthResponse
	if err := sc.getJSON(ctx, "/healthz", &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("unhealthy: %s", resp.Status)
	}
	return nil
}

// GetGallery lists the gallery images in category, or all of them for catalog.NoFilter.
func (sc *SiteClient) GetGallery(ctx context.Context, category catalog.Category) (*models.GalleryResponse, error) {
	path := "/api/gallery"
	if category != catalog.NoFilter {
		path += "?category=" + url.QueryEscape(string(category))
	}
	var resp models.GalleryResponse
	if err := sc.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (sc *SiteClient) GetTestimonials(ctx context.Context) ([]catalog.Testimonial, error) {
	var resp models.TestimonialsResponse
	if err := sc.getJSON(ctx, "/api/testimonials", &resp); err != nil {
		return nil, err
	}
	return resp.Testimonials, nil
}

func (sc *SiteClient) GetServices(ctx context.Context) (*models.ServicesResponse, error) {
	var resp models.ServicesResponse
	if err := sc.getJSON(ctx, "/api/services", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (sc *SiteClient) GetSettings(ctx context.Context) (*store.AppSettings, error) {
	var settings store.AppSettings
	if err := sc.getJSON(ctx, "/settings", &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (sc *SiteClient) UpdateSettings(ctx context.Context, req models.UpdateSettingsRequest) (*store.AppSettings, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	var settings store.AppSettings
	if err := sc.do(ctx, http.MethodPut, "/settings", bytes.NewReader(jsonData), "application/json", &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Gallery returns the visitor's navigator state without changing it.
func (sc *SiteClient) Gallery(ctx context.Context) (*models.GalleryStateResponse, error) {
	var resp models.GalleryStateResponse
	if err := sc.getJSON(ctx, "/ui/gallery", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (sc *SiteClient) galleryAction(ctx context.Context, action string) (*models.GalleryStateResponse, error) {
	var resp models.GalleryStateResponse
	if err := sc.post(ctx, "/ui/gallery/"+action, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleFilter toggles category; catalog.NoFilter clears the filter.
func (sc *SiteClient) ToggleFilter(ctx context.Context, category catalog.Category) (*models.GalleryStateResponse, error) {
	name := string(category)
	if category == catalog.NoFilter {
		name = "all"
	}
	return sc.galleryAction(ctx, "filter/"+url.PathEscape(name))
}

func (sc *SiteClient) OpenImage(ctx context.Context, id int) (*models.GalleryStateResponse, error) {
	return sc.galleryAction(ctx, "open/"+strconv.Itoa(id))
}

func (sc *SiteClient) CloseImage(ctx context.Context) (*models.GalleryStateResponse, error) {
	return sc.galleryAction(ctx, "close")
}

func (sc *SiteClient) NextImage(ctx context.Context) (*models.GalleryStateResponse, error) {
	return sc.galleryAction(ctx, "next")
}

func (sc *SiteClient) PreviousImage(ctx context.Context) (*models.GalleryStateResponse, error) {
	return sc.galleryAction(ctx, "previous")
}

func (sc *SiteClient) PressKey(ctx context.Context, key string) (*models.GalleryStateResponse, error) {
	return sc.galleryAction(ctx, "key/"+url.PathEscape(key))
}

func (sc *SiteClient) Carousel(ctx context.Context) (*models.CarouselStateResponse, error) {
	var resp models.CarouselStateResponse
	if err := sc.getJSON(ctx, "/ui/testimonials", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (sc *SiteClient) carouselAction(ctx context.Context, action string) (*models.CarouselStateResponse, error) {
	var resp models.CarouselStateResponse
	if err := sc.post(ctx, "/ui/testimonials/"+action, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (sc *SiteClient) NextTestimonial(ctx context.Context) (*models.CarouselStateResponse, error) {
	return sc.carouselAction(ctx, "next")
}

func (sc *SiteClient) PreviousTestimonial(ctx context.Context) (*models.CarouselStateResponse, error) {
	return sc.carouselAction(ctx, "previous")
}

func (sc *SiteClient) GoToTestimonial(ctx context.Context, index int) (*models.CarouselStateResponse, error) {
	return sc.carouselAction(ctx, "goto/"+strconv.Itoa(index))
}

// SubmitContact posts the contact form. Validation failures come back as a StatusError with
// code 422 alongside the per-field messages in the returned response.
func (sc *SiteClient) SubmitContact(ctx context.Context, form contact.Form) (*models.ContactResponse, error) {
	values := url.Values{
		"name":    {form.Name},
		"email":   {form.Email},
		"phone":   {form.Phone},
		"message": {form.Message},
	}
	var resp models.ContactResponse
	err := sc.do(ctx, http.MethodPost, "/contact", strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", &resp)
	return &resp, err
}

func (sc *SiteClient) Subscribe(ctx context.Context, email string) (*models.NewsletterResponse, error) {
	values := url.Values{"email": {email}}
	var resp models.NewsletterResponse
	if err := sc.do(ctx, http.MethodPost, "/newsletter", strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/betasalon/api"
	"github.com/aouyang1/betasalon/api/models"
	"github.com/aouyang1/betasalon/catalog"
	"github.com/aouyang1/betasalon/contact"
	"github.com/aouyang1/betasalon/i18n"
	"github.com/aouyang1/betasalon/session"
	"github.com/aouyang1/betasalon/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := catalog.Load()
	require.NoError(t, err)
	db, err := store.NewDatabase(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), store.AppSettings{CarouselPeriodSeconds: 5, DefaultLang: "he"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.SeedCatalog(c))
	bundle, err := i18n.Load("he")
	require.NoError(t, err)

	ws, err := api.NewWebServer(api.Deps{
		DB:        db,
		Catalog:   c,
		Bundle:    bundle,
		Sessions:  session.NewRegistry(8, time.Hour),
		Submitter: contact.SimulatedSubmitter{},
	}, api.Options{BaseURL: "https://salon.test"})
	require.NoError(t, err)
	t.Cleanup(ws.Close)

	srv := httptest.NewServer(ws.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestCatalogRoutes(t *testing.T) {
	sc := NewSiteClient(newTestServer(t).URL + "/")
	ctx := context.Background()

	require.NoError(t, sc.Health(ctx))

	gallery, err := sc.GetGallery(ctx, catalog.NoFilter)
	require.NoError(t, err)
	require.Equal(t, 12, gallery.Total)

	gallery, err = sc.GetGallery(ctx, catalog.Salon)
	require.NoError(t, err)
	require.Len(t, gallery.Images, 3)

	_, err = sc.GetGallery(ctx, catalog.Category("nails"))
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)

	testimonials, err := sc.GetTestimonials(ctx)
	require.NoError(t, err)
	require.Len(t, testimonials, 5)

	services, err := sc.GetServices(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, services.Highlights)
}

func TestSettingsRoundTrip(t *testing.T) {
	sc := NewSiteClient(newTestServer(t).URL)
	ctx := context.Background()

	settings, err := sc.GetSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, "he", settings.DefaultLang)

	updated, err := sc.UpdateSettings(ctx, models.UpdateSettingsRequest{CarouselPeriodSeconds: 9, DefaultLang: "en"})
	require.NoError(t, err)
	require.Equal(t, 9, updated.CarouselPeriodSeconds)

	_, err = sc.UpdateSettings(ctx, models.UpdateSettingsRequest{CarouselPeriodSeconds: -1, DefaultLang: "en"})
	require.ErrorContains(t, err, "carousel_period_seconds")
}

func TestWidgetsKeepVisitorState(t *testing.T) {
	sc := NewSiteClient(newTestServer(t).URL)
	ctx := context.Background()

	state, err := sc.ToggleFilter(ctx, catalog.Color)
	require.NoError(t, err)
	require.Equal(t, []int{3, 7, 11}, state.ImageIDs)

	state, err = sc.OpenImage(ctx, 7)
	require.NoError(t, err)
	require.True(t, state.ScrollLocked)

	state, err = sc.NextImage(ctx)
	require.NoError(t, err)
	require.Equal(t, 11, state.Selected.ID)

	state, err = sc.PreviousImage(ctx)
	require.NoError(t, err)
	require.Equal(t, 7, state.Selected.ID)

	state, err = sc.PressKey(ctx, "Escape")
	require.NoError(t, err)
	require.False(t, state.Open)
	require.False(t, state.ScrollLocked)

	state, err = sc.ToggleFilter(ctx, catalog.NoFilter)
	require.NoError(t, err)
	require.Len(t, state.ImageIDs, 12)

	_, err = sc.OpenImage(ctx, 1)
	require.NoError(t, err)
	state, err = sc.CloseImage(ctx)
	require.NoError(t, err)
	require.False(t, state.Open)

	state, err = sc.Gallery(ctx)
	require.NoError(t, err)
	require.Equal(t, catalog.NoFilter, state.Filter)

	carousel, err := sc.Carousel(ctx)
	require.NoError(t, err)
	require.True(t, carousel.Autoplay)

	carousel, err = sc.GoToTestimonial(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, 3, carousel.Index)
	require.False(t, carousel.Autoplay)

	carousel, err = sc.NextTestimonial(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, carousel.Index)

	carousel, err = sc.PreviousTestimonial(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, carousel.Index)

	_, err = sc.GoToTestimonial(ctx, 50)
	require.Error(t, err)
}

func TestSubmitContact(t *testing.T) {
	sc := NewSiteClient(newTestServer(t).URL)
	ctx := context.Background()

	resp, err := sc.SubmitContact(ctx, contact.Form{Name: "Dana", Email: "bad", Phone: "0501234567", Message: "hi"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	require.Contains(t, resp.Errors, "email")

	resp, err = sc.SubmitContact(ctx, contact.Form{Name: "Dana", Email: "dana@example.com", Phone: "0501234567", Message: "hi"})
	require.NoError(t, err)
	require.Equal(t, "success", resp.Status)

	sub, err := sc.Subscribe(ctx, "dana@example.com")
	require.NoError(t, err)
	require.True(t, sub.New)
}

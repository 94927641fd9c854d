package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/betasalon/api/models"
	"github.com/aouyang1/betasalon/api/web/templates"
	"github.com/aouyang1/betasalon/contact"
)

func (ws *WebServer) status(c *gin.Context, kind, key string) *templates.StatusView {
	return &templates.StatusView{
		Kind:       kind,
		Message:    ws.translator(c)(key),
		ClearAfter: ws.opts.StatusClearAfter,
	}
}

func (ws *WebServer) handleContact(c *gin.Context) {
	t := ws.translator(c)

	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "invalid contact form: "+err.Error())
		return
	}
	form = form.Normalize()
	view := templates.ContactFormView{
		T:       t,
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Message: form.Message,
	}

	if err := form.Validate(); err != nil {
		var fields contact.FieldErrors
		if !errors.As(err, &fields) {
			badRequest(c, err.Error())
			return
		}
		view.Errors = make(map[string]string, len(fields))
		for name, key := range fields {
			view.Errors[name] = t(key)
		}
		if isHTMX(c) {
			ws.renderFragment(c, http.StatusOK, templates.ContactForm(view))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, models.ContactResponse{Status: "invalid", Errors: view.Errors})
		return
	}

	if err := ws.submitter.Submit(c.Request.Context(), form); err != nil {
		slog.Warn("contact submission failed", "email", form.Email, "error", err)
		view.Status = ws.status(c, templates.StatusFailure, "contact.failure")
		if isHTMX(c) {
			ws.renderFragment(c, http.StatusOK, templates.ContactForm(view))
			return
		}
		c.JSON(http.StatusBadGateway, models.ContactResponse{Status: templates.StatusFailure, Message: view.Status.Message})
		return
	}

	slog.Info("contact submission accepted", "email", form.Email)
	// a successful submission clears the form
	done := templates.ContactFormView{T: t, Status: ws.status(c, templates.StatusSuccess, "contact.success")}
	if isHTMX(c) {
		ws.renderFragment(c, http.StatusOK, templates.ContactForm(done))
		return
	}
	c.JSON(http.StatusOK, models.ContactResponse{Status: templates.StatusSuccess, Message: done.Status.Message})
}

func (ws *WebServer) handleNewsletter(c *gin.Context) {
	t := ws.translator(c)

	var form contact.NewsletterForm
	if err := c.ShouldBind(&form); err != nil {
		key := contact.KeyEmailInvalid
		if form.Email == "" {
			key = contact.KeyEmailRequired
		}
		if isHTMX(c) {
			ws.renderFragment(c, http.StatusOK, templates.NewsletterForm(templates.NewsletterView{T: t, Email: form.Email, Error: t(key)}))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: t(key)})
		return
	}

	added := ws.newsletter.Subscribe(form.Email)
	slog.Info("newsletter sign-up", "new", added, "subscribers", ws.newsletter.Count())
	status := ws.status(c, templates.StatusSuccess, "newsletter.success")
	if isHTMX(c) {
		ws.renderFragment(c, http.StatusOK, templates.NewsletterForm(templates.NewsletterView{T: t, Status: status}))
		return
	}
	c.JSON(http.StatusOK, models.NewsletterResponse{Subscribed: true, New: added, Message: status.Message})
}

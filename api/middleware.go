package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aouyang1/betasalon/session"
)

const (
	LangCookieName  = "salon_lang"
	RequestIDHeader = "X-Request-ID"

	visitorKey = "visitor"
	langKey    = "lang"
)

// requestLogger writes one slog record per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", requestID,
			"htmx", isHTMX(c),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		slog.Log(c.Request.Context(), level, "request", attrs...)
	}
}

func cacheControl(prefix string, maxAge time.Duration) gin.HandlerFunc {
	value := fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds()))
	return func(c *gin.Context) {
		if maxAge > 0 && strings.HasPrefix(c.Request.URL.Path, prefix) {
			c.Header("Cache-Control", value)
		}
		c.Next()
	}
}

// visitorMiddleware attaches the browser's visitor, issuing a cookie for new ones.
func (ws *WebServer) visitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(session.CookieName)
		v, created := ws.sessions.Get(id)
		if created || id != v.ID {
			slog.Debug("new visitor", "visitor", v.ID)
		}
		if id != v.ID {
			ws.setCookie(c, session.CookieName, v.ID)
		}
		c.Set(visitorKey, v)
		c.Next()
	}
}

// languageMiddleware picks the response language: an explicit ?lang= (remembered in a
// cookie), then the cookie, then Accept-Language, then the configured default.
func (ws *WebServer) languageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := ws.resolveLang(c)
		if v := visitor(c); v != nil {
			v.SetLang(lang)
		}
		c.Set(langKey, lang)
		c.Header("Content-Language", lang)
		c.Header("Vary", "HX-Request, Accept-Language, Cookie")
		c.Next()
	}
}

func (ws *WebServer) resolveLang(c *gin.Context) string {
	if q := c.Query("lang"); q != "" {
		if lang, ok := ws.supported(q); ok {
			ws.setCookie(c, LangCookieName, lang)
			return lang
		}
	}
	if cookie, err := c.Cookie(LangCookieName); err == nil {
		if lang, ok := ws.supported(cookie); ok {
			return lang
		}
	}
	if lang, ok := ws.bundle.Match(c.GetHeader("Accept-Language")); ok {
		return lang
	}
	return ws.bundle.Normalize(ws.settings().DefaultLang)
}

func (ws *WebServer) supported(lang string) (string, bool) {
	for _, l := range ws.bundle.Languages() {
		if strings.EqualFold(l, lang) {
			return l, true
		}
	}
	return "", false
}

func (ws *WebServer) setCookie(c *gin.Context, name, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(ws.opts.VisitorMaxAge.Seconds()), "/", "", c.Request.TLS != nil, true)
}

func visitor(c *gin.Context) *session.Visitor {
	v, ok := c.Get(visitorKey)
	if !ok {
		return nil
	}
	return v.(*session.Visitor)
}

func lang(c *gin.Context) string {
	return c.GetString(langKey)
}

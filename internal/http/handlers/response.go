// Package handlers provides HTTP handler implementations for the site.
//
// This file defines the single JSON envelope every endpoint answers with,
// successful or not, plus the helpers that write it:
//
//	HTTP/1.1 200 OK
//	{ "ok": true, "message": "Message sent successfully.", "request_id": "..." }
//
//	HTTP/1.1 500 Internal Server Error
//	{
//	  "ok": false,
//	  "code": "internal_error",
//	  "message": "Server error while saving message.",
//	  "request_id": "...",
//	  "fallback": { "mailto": "mailto:...", "whatsapp": "https://wa.me/..." }
//	}
//
// fail() centralizes error formatting and logs 5xx responses with the
// request-scoped logger.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-contact-site/internal/deeplink"
	"github.com/tbourn/go-contact-site/internal/http/middleware"
)

// Result is the response envelope returned by all endpoints.
type Result struct {
	// True only when the request fully succeeded
	OK bool `json:"ok" example:"true"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"Message sent successfully."`
	// Stable, machine-readable code on failures (see errors.go)
	Code string `json:"code,omitempty" example:"bad_request"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Prefilled deep links the visitor can use instead
	Fallback *deeplink.Links `json:"fallback,omitempty"`
}

// fail aborts the request with an ok:false envelope.
func fail(c *gin.Context, status int, code, msg string) {
	failWith(c, status, code, msg, nil)
}

// failWith is fail with optional fallback links.
//
// Server errors (>=500) are logged using the request-scoped logger.
func failWith(c *gin.Context, status int, code, msg string, fallback *deeplink.Links) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		ev := lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg)
		if len(c.Errors) > 0 {
			ev = ev.Str("cause", c.Errors.Last().Error())
		}
		ev.Msg("api error")
	}

	c.AbortWithStatusJSON(status, Result{
		OK:        false,
		Message:   msg,
		Code:      code,
		RequestID: middleware.GetRequestID(c),
		Fallback:  fallback,
	})
}

// Fail is the exported variant of fail(), used by router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes an ok:true envelope with status 200.
func ok(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Result{
		OK:        true,
		Message:   msg,
		RequestID: middleware.GetRequestID(c),
	})
}

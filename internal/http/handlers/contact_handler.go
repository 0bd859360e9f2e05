// Contact HTTP handlers.
//
// This file exposes the contact endpoint used by the site's form:
//   - GET  /api/contact  (liveness)
//   - POST /api/contact  (submit a message)
//
// Handlers are transport-thin: they decode input strictly, delegate to the
// ContactService, and translate service errors into the JSON envelope. When
// a message cannot be stored the response carries prefilled mailto/WhatsApp
// links so the visitor can still reach the business.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-contact-site/internal/deeplink"
	"github.com/tbourn/go-contact-site/internal/domain"
	"github.com/tbourn/go-contact-site/internal/services"
)

// ContactService accepts contact submissions.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation.
type ContactService interface {
	// Submit validates and stores one submission.
	Submit(ctx context.Context, f domain.ContactFields) (*domain.Submission, error)
}

// Handlers groups the contact endpoints.
type Handlers struct {
	contactSvc ContactService
	links      deeplink.Builder
}

// New constructs Handlers bound to the contact service. links supplies the
// fallback deep links attached to storage failures; a zero Builder disables them.
func New(contactSvc ContactService, links deeplink.Builder) *Handlers {
	return &Handlers{contactSvc: contactSvc, links: links}
}

// ContactRequest is the JSON payload of POST /api/contact. Unknown fields are
// rejected.
type ContactRequest struct {
	Name    string `json:"name" example:"Jane"`
	Phone   string `json:"phone" example:"+1555"`
	Subject string `json:"subject" example:"Quote"`
	Message string `json:"message" example:"Hi"`
}

func (r ContactRequest) fields() domain.ContactFields {
	return domain.ContactFields{
		Name:    r.Name,
		Phone:   r.Phone,
		Subject: r.Subject,
		Message: r.Message,
	}
}

// ContactStatus godoc
// @ID          contactStatus
// @Summary     Contact endpoint liveness
// @Description Always answers ok:true; has no side effects.
// @Tags        Contact
// @Produce     json
// @Success     200  {object} handlers.Result
// @Router      /api/contact [get]
func (h *Handlers) ContactStatus(c *gin.Context) {
	ok(c, MsgContactRunning)
}

// SubmitContact godoc
// @ID          submitContact
// @Summary     Submit the contact form
// @Description Stores one submission. All four fields are required after trimming.
// @Tags        Contact
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ContactRequest true "Contact form fields"
// @Success     200   {object}  handlers.Result
// @Failure     400   {object}  handlers.Result "Missing field or malformed body"
// @Failure     413   {object}  handlers.Result "Body over the size limit"
// @Failure     429   {object}  handlers.Result "Rate limited"
// @Failure     500   {object}  handlers.Result "Storage failure; carries fallback links"
// @Router      /api/contact [post]
func (h *Handlers) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := decodeStrict(c.Request.Body, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Header("Connection", "close")
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, MsgPayloadTooLarge)
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidBody)
		return
	}

	f := req.fields()
	if _, err := h.contactSvc.Submit(c.Request.Context(), f); err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgFieldsRequired)
			return
		}
		_ = c.Error(err)
		failWith(c, http.StatusInternalServerError, ErrCodeInternal, MsgSaveFailed, h.links.Links(f.Normalize()))
		return
	}

	ok(c, MsgSent)
}

// decodeStrict decodes exactly one JSON value from r into v, rejecting
// unknown fields and trailing data.
func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

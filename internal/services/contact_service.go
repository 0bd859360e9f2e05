// Package services – ContactService
//
// ContactService accepts contact-form submissions: it normalizes the four
// user fields, rejects incomplete input with ErrMissingFields, and hands the
// record to a SubmissionStore. Each outcome is counted in Prometheus and the
// call is wrapped in an OpenTelemetry span.
package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-contact-site/internal/domain"
)

// Outcome label values for contact_submissions_total.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var submissionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "contact_submissions_total",
		Help: "Contact form submissions by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(submissionsTotal)
}

var tracer = otel.Tracer("github.com/tbourn/go-contact-site/internal/services")

// SubmissionStore persists accepted submissions. Implementations must
// serialize appends and return the stored record.
type SubmissionStore interface {
	Append(ctx context.Context, f domain.ContactFields, now time.Time) (*domain.Submission, error)
}

// ContactService implements the contact use-case on top of a SubmissionStore.
type ContactService struct {
	// Store receives every accepted submission.
	Store SubmissionStore
	// Now returns the creation time; defaults to time.Now.
	Now func() time.Time
}

// NewContactService returns a ContactService writing to store.
func NewContactService(store SubmissionStore) *ContactService {
	return &ContactService{Store: store, Now: time.Now}
}

// Submit validates f and appends it to the store.
//
// Semantics:
//   - Fields are trimmed before validation and storage.
//   - Any empty field yields a *MissingFieldsError (errors.Is ErrMissingFields)
//     and nothing is stored.
//   - Store errors are returned unchanged.
func (s *ContactService) Submit(ctx context.Context, f domain.ContactFields) (*domain.Submission, error) {
	ctx, span := tracer.Start(ctx, "contact.submit", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	f = f.Normalize()
	if missing := f.Missing(); len(missing) > 0 {
		submissionsTotal.WithLabelValues(OutcomeRejected).Inc()
		span.SetAttributes(attribute.StringSlice("contact.missing_fields", missing))
		return nil, &MissingFieldsError{Fields: missing}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	rec, err := s.Store.Append(ctx, f, now())
	if err != nil {
		submissionsTotal.WithLabelValues(OutcomeFailed).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "store append failed")
		return nil, err
	}

	submissionsTotal.WithLabelValues(OutcomeAccepted).Inc()
	span.SetAttributes(attribute.Int64("contact.submission_id", rec.ID))
	return rec, nil
}

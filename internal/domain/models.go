// Package domain defines the contact-form submission model shared by the
// HTTP layer, the service layer and the stores. Submission is mapped both to
// the JSON document written by the file store and, through GORM tags, to the
// table used by the SQLite store.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// TimestampLayout is the createdAt encoding: UTC with exactly three
// fractional digits, e.g. 2024-05-06T07:11:12.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ContactFields are the four user-supplied values of a contact request.
type ContactFields struct {
	Name    string `json:"name"    example:"Jane"`
	Phone   string `json:"phone"   example:"+1555"`
	Subject string `json:"subject" example:"Quote"`
	Message string `json:"message" example:"Hi"`
}

// Normalize returns a copy with leading and trailing whitespace removed from
// every field. Interior bytes are kept as submitted.
func (f ContactFields) Normalize() ContactFields {
	return ContactFields{
		Name:    strings.TrimSpace(f.Name),
		Phone:   strings.TrimSpace(f.Phone),
		Subject: strings.TrimSpace(f.Subject),
		Message: strings.TrimSpace(f.Message),
	}
}

// Missing lists the JSON names of the fields that are empty after trimming,
// in declaration order. An empty result means the fields are complete.
func (f ContactFields) Missing() []string {
	var out []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			out = append(out, name)
		}
	}
	check("name", f.Name)
	check("phone", f.Phone)
	check("subject", f.Subject)
	check("message", f.Message)
	return out
}

// Submission is one persisted contact-form entry. Records are append-only:
// nothing in this module updates or deletes them.
//
// Fields:
//   - ID: creation time in epoch milliseconds, bumped when needed so that ids
//     are unique and non-decreasing in arrival order (see NextID).
//   - Name, Phone, Subject, Message: trimmed user input, never empty.
//   - CreatedAt: UTC creation timestamp with millisecond precision, encoded
//     with TimestampLayout.
type Submission struct {
	ID        int64     `json:"id"        gorm:"primaryKey;autoIncrement:false"`
	Name      string    `json:"name"      gorm:"type:text;not null"`
	Phone     string    `json:"phone"     gorm:"type:varchar(64);not null"`
	Subject   string    `json:"subject"   gorm:"type:text;not null"`
	Message   string    `json:"message"   gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;index"`
}

// TableName returns the database table name for Submission.
func (Submission) TableName() string { return "submissions" }

// MarshalJSON writes CreatedAt with TimestampLayout. Decoding uses the
// default time.Time parser, which accepts that layout.
func (s Submission) MarshalJSON() ([]byte, error) {
	type plain Submission
	return json.Marshal(struct {
		plain
		CreatedAt string `json:"createdAt"`
	}{plain(s), s.CreatedAt.UTC().Format(TimestampLayout)})
}

// NewSubmission builds the record for fields received at now.
func NewSubmission(id int64, f ContactFields, now time.Time) Submission {
	return Submission{
		ID:        id,
		Name:      f.Name,
		Phone:     f.Phone,
		Subject:   f.Subject,
		Message:   f.Message,
		CreatedAt: now.UTC().Truncate(time.Millisecond),
	}
}

// NextID returns the id for a submission created at now, given the id of the
// most recent record (0 when there is none). It is the epoch-millisecond
// timestamp unless that would not exceed last, in which case it is last+1.
func NextID(last int64, now time.Time) int64 {
	id := now.UnixMilli()
	if id <= last {
		id = last + 1
	}
	return id
}

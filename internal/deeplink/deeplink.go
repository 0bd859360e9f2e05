// Package deeplink builds the mailto: and WhatsApp links that hand a contact
// message off to another application. The site's form script opens the same
// links directly; the API attaches them to failed submissions so a client can
// still deliver the message.
package deeplink

import (
	"net/url"
	"strings"

	"github.com/tbourn/go-contact-site/internal/domain"
)

// SubjectPrefix is prepended to the e-mail subject line.
const SubjectPrefix = "Website Inquiry: "

// Links are prefilled hand-off URLs. Empty members are omitted.
type Links struct {
	Mailto   string `json:"mailto,omitempty"   example:"mailto:hello@example.com?subject=Website%20Inquiry%3A%20Quote&body=..."`
	WhatsApp string `json:"whatsapp,omitempty" example:"https://wa.me/15550100?text=..."`
}

// Builder holds the destination address and WhatsApp number.
type Builder struct {
	Email          string
	WhatsAppNumber string // digits only, international format without "+"
}

// Compose renders the message body shared by both channels:
//
//	Name: <name>
//	Phone: <phone>
//	Subject: <subject>
//
//	<message>
func Compose(f domain.ContactFields) string {
	return strings.Join([]string{
		"Name: " + f.Name,
		"Phone: " + f.Phone,
		"Subject: " + f.Subject,
		"",
		f.Message,
	}, "\n")
}

// Mailto returns a mailto: URL, or "" when no address is configured.
func (b Builder) Mailto(f domain.ContactFields) string {
	if b.Email == "" {
		return ""
	}
	return "mailto:" + b.Email +
		"?subject=" + escape(SubjectPrefix+f.Subject) +
		"&body=" + escape(Compose(f))
}

// WhatsApp returns a wa.me URL, or "" when no number is configured.
func (b Builder) WhatsApp(f domain.ContactFields) string {
	if b.WhatsAppNumber == "" {
		return ""
	}
	return "https://wa.me/" + b.WhatsAppNumber + "?text=" + escape(Compose(f))
}

// Links returns both URLs, or nil when neither channel is configured.
func (b Builder) Links(f domain.ContactFields) *Links {
	l := Links{Mailto: b.Mailto(f), WhatsApp: b.WhatsApp(f)}
	if l.Mailto == "" && l.WhatsApp == "" {
		return nil
	}
	return &l
}

// escape percent-encodes s for a query value, spaces as %20 (mail clients
// do not treat "+" as a space in mailto: URLs).
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Package handlers defines HTTP-layer error codes and messages used across
// all endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them. Messages
// are safe to show in the browser verbatim, which is what the contact form
// script does.
//
// Example response:
//
//	{
//	  "ok": false,
//	  "code": "bad_request",
//	  "message": "All fields are required.",
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
)

// User-facing messages.
const (
	MsgSent             = "Message sent successfully."
	MsgContactRunning   = "Contact endpoint is running."
	MsgFieldsRequired   = "All fields are required."
	MsgInvalidBody      = "Invalid request body."
	MsgPayloadTooLarge  = "Payload too large."
	MsgSaveFailed       = "Server error while saving message."
	MsgForbidden        = "Forbidden"
	MsgNotFound         = "Not found"
	MsgMethodNotAllowed = "Method not allowed."
)

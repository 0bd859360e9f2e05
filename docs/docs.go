// Package docs registers the OpenAPI description of the contact API with
// swag so gin-swagger can serve it at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/contact": {
            "get": {
                "description": "Always answers ok:true; has no side effects.",
                "produces": ["application/json"],
                "tags": ["Contact"],
                "summary": "Contact endpoint liveness",
                "operationId": "contactStatus",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.Result"}
                    }
                }
            },
            "post": {
                "description": "Stores one submission. All four fields are required after trimming.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Contact"],
                "summary": "Submit the contact form",
                "operationId": "submitContact",
                "parameters": [
                    {
                        "description": "Contact form fields",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.ContactRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.Result"}
                    },
                    "400": {
                        "description": "Missing field or malformed body",
                        "schema": {"$ref": "#/definitions/handlers.Result"}
                    },
                    "413": {
                        "description": "Body over the size limit",
                        "schema": {"$ref": "#/definitions/handlers.Result"}
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {"$ref": "#/definitions/handlers.Result"}
                    },
                    "500": {
                        "description": "Storage failure; carries fallback links",
                        "schema": {"$ref": "#/definitions/handlers.Result"}
                    }
                }
            }
        }
    },
    "definitions": {
        "deeplink.Links": {
            "type": "object",
            "properties": {
                "mailto": {"type": "string", "example": "mailto:hello@example.com?subject=Website%20Inquiry%3A%20Quote&body=..."},
                "whatsapp": {"type": "string", "example": "https://wa.me/15550100?text=..."}
            }
        },
        "handlers.ContactRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Jane"},
                "phone": {"type": "string", "example": "+1555"},
                "subject": {"type": "string", "example": "Quote"},
                "message": {"type": "string", "example": "Hi"}
            }
        },
        "handlers.Result": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "message": {"type": "string", "example": "Message sent successfully."},
                "code": {"type": "string", "example": "bad_request"},
                "request_id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"},
                "fallback": {"$ref": "#/definitions/deeplink.Links"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Contact Site API",
	Description:      "Contact form endpoint of the marketing site.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

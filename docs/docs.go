// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/register": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Admin only. Residents are attached to their unit, which is created when unknown.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Register account",
                "parameters": [
                    {"description": "Account data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RegisterInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/billing/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Payment configuration",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/billing/invoices": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Invoices of the caller's unit, newest first, with the id of the confirming payment when paid.",
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "List my invoices",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/billing/pay": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Pays one of the caller's invoices. Paying an invoice that is already paid succeeds with applied=false.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Simulated payment",
                "parameters": [
                    {"description": "Invoice to pay", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PayRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/billing/checkout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates a provider session for the caller's unpaid invoices among ids. Foreign and paid invoices are skipped.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Start checkout",
                "parameters": [
                    {"description": "Invoice ids", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CheckoutRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/billing/confirm": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Looks the session up at the provider and settles its invoices. Answers 202 with status=pending while the provider has not confirmed the payment.",
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Confirm checkout",
                "parameters": [
                    {"type": "string", "description": "Provider session id", "name": "session_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/billing/receipts/{paymentID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the PDF receipt of a payment, generating it first when missing.",
                "produces": ["application/pdf"],
                "tags": ["billing"],
                "summary": "Download receipt",
                "parameters": [
                    {"type": "integer", "description": "Payment ID", "name": "paymentID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/billing/webhook": {
            "post": {
                "description": "Verifies the Stripe-Signature header over the raw body. Any authentic event is acknowledged; per-invoice failures are only logged.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Provider webhook",
                "parameters": [
                    {"type": "string", "description": "Provider signature", "name": "Stripe-Signature", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Unit and resident counts, invoices by status, receivable and collected totals, and the five latest payments.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/admin/invoices": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Issue invoice",
                "parameters": [
                    {"description": "Invoice data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.InvoiceInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        },
        "/admin/invoices/overdue": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Overdue sweep",
                "parameters": [
                    {"type": "string", "description": "Reference date (YYYY-MM-DD or RFC3339), default now", "name": "as_of", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.Response"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"}
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handlers.PayRequest": {
            "type": "object",
            "properties": {
                "invoice_id": {"type": "integer"}
            }
        },
        "handlers.CheckoutRequest": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "models.InvoiceInput": {
            "type": "object",
            "properties": {
                "amount": {"type": "string", "example": "45.50"},
                "concept": {"type": "string"},
                "due_at": {"type": "string"},
                "issued_at": {"type": "string"},
                "unit_number": {"type": "string"}
            }
        },
        "models.RegisterInput": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "national_id": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string", "example": "Residente"},
                "second_last_name": {"type": "string"},
                "unit_number": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Condo Billing API",
	Description:      "Invoices, checkout and payment reconciliation for residential buildings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

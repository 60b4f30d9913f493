// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/server/main.go`.
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
        "/api/auth/register": {"post": {"tags": ["auth"], "summary": "Register", "responses": {"201": {"description": "Created"}}}},
        "/api/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}}}},
        "/api/user/me": {"get": {"tags": ["users"], "summary": "Current user", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/user/avatar": {"put": {"tags": ["users"], "summary": "Change avatar", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/koki-status": {
            "get": {"tags": ["koki"], "summary": "KOKI status", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["koki"], "summary": "Claim daily bonus", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/roulette-koki": {"post": {"tags": ["koki"], "summary": "KOKI roulette", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/roulette-koki/wheel": {"get": {"tags": ["koki"], "summary": "Roulette wheel", "responses": {"200": {"description": "OK"}}}},
        "/api/ticket-koki": {"post": {"tags": ["koki"], "summary": "Ticket KOKI actions", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/buy-koki": {"post": {"tags": ["koki"], "summary": "Buy KOKI", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/convert-koki": {"post": {"tags": ["koki"], "summary": "Convert KOKI", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/kotickets": {"get": {"tags": ["kotickets"], "summary": "List KoTickets", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/scratch-koticket": {"post": {"tags": ["kotickets"], "summary": "Scratch a KoTicket", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/accumulate-kotickets": {"post": {"tags": ["kotickets"], "summary": "Accumulate KoTickets", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/lottery/active": {"get": {"tags": ["lottery"], "summary": "Active lottery", "responses": {"200": {"description": "OK"}}}},
        "/api/lottery/{id}/results": {"get": {"tags": ["lottery"], "summary": "Lottery results", "responses": {"200": {"description": "OK"}}}},
        "/api/buy-ticket": {"post": {"tags": ["lottery"], "summary": "Buy ticket", "security": [{"Bearer": []}], "responses": {"201": {"description": "Created"}}}},
        "/api/tickets": {"get": {"tags": ["lottery"], "summary": "My tickets", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/admin/config": {"get": {"tags": ["admin"], "summary": "System config", "security": [{"AdminKey": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/admin/config/{key}": {"put": {"tags": ["admin"], "summary": "Update a setting", "security": [{"AdminKey": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/admin/draw": {"post": {"tags": ["admin"], "summary": "Run the weekly draw", "security": [{"AdminKey": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/admin/kotickets/grant": {"post": {"tags": ["admin"], "summary": "Grant KoTickets", "security": [{"AdminKey": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/admin/koki/grant": {"post": {"tags": ["admin"], "summary": "Grant KOKI", "security": [{"AdminKey": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/admin/weekly-fund": {"post": {"tags": ["admin"], "summary": "Create weekly fund", "security": [{"AdminKey": []}], "responses": {"201": {"description": "Created"}}}},
        "/api/admin/weekly-funds": {"get": {"tags": ["admin"], "summary": "List weekly funds", "security": [{"AdminKey": []}], "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "AdminKey": {"type": "apiKey", "name": "X-Admin-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "KokiFI Lottery API",
	Description:      "KOKI point economy and weekly lottery.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

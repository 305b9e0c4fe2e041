// Package docs registra la especificación Swagger de la API.
// Mantenido junto a las anotaciones @Summary de los handlers.
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
        "/providers/{providerID}/availability": {
            "get": {
                "produces": ["application/json"],
                "tags": ["availability"],
                "summary": "Disponibilidad de un provider para una fecha",
                "parameters": [
                    {"type": "string", "name": "providerID", "in": "path", "required": true},
                    {"type": "string", "name": "date", "in": "query", "required": true, "description": "YYYY-MM-DD"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/appointments": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Crear reserva",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Slot already booked"},
                    "422": {"description": "Outside working hours / past slot"}
                }
            }
        },
        "/appointments/{appointmentID}/status": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Cambiar estado de una cita",
                "parameters": [
                    {"type": "string", "name": "appointmentID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Illegal transition"}
                }
            }
        },
        "/me/appointments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Mis citas",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/pets": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Registrar mascota",
                "responses": {"201": {"description": "Created"}}
            },
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Mis mascotas",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/providers": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["providers"],
                "summary": "Alta de provider (admin)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/providers/{providerID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["providers"],
                "summary": "Detalle de provider",
                "parameters": [
                    {"type": "string", "name": "providerID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "vet-booking API",
	Description:      "Booking & availability engine para citas veterinarias.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

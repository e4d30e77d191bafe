package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Lecture Attendance API",
        "description": "Lecture attendance rosters and server-held attendance dialogs",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Attendance", "description": "Lecture attendance rosters"},
        {"name": "Dialogs", "description": "Attendance dialog sessions"}
    ],
    "paths": {
        "/lectures/{lectureId}/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Lecture attendance",
                "description": "Attendance of a lecture joined with student profiles, newest first.",
                "parameters": [
                    {"name": "lectureId", "in": "path", "required": true, "type": "string"},
                    {"name": "lang", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Lecture not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Malformed attendance row", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lectures/{lectureId}/attendance/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Export lecture attendance",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "lectureId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"name": "lang", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance-dialogs": {
            "post": {
                "tags": ["Dialogs"],
                "summary": "Open an attendance dialog",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenDialogRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance-dialogs/{id}": {
            "get": {
                "tags": ["Dialogs"],
                "summary": "Attendance dialog state",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "wait", "in": "query", "type": "boolean"},
                    {"name": "lang", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown dialog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Dialogs"],
                "summary": "Update attendance dialog props",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDialogRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown dialog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Dialogs"],
                "summary": "Dispose an attendance dialog",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Disposed"},
                    "404": {"description": "Unknown dialog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance-dialogs/{id}/html": {
            "get": {
                "tags": ["Dialogs"],
                "summary": "Rendered attendance dialog",
                "produces": ["text/html"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "lang", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "HTML fragment, empty when closed"},
                    "404": {"description": "Unknown dialog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance-dialogs/{id}/refresh": {
            "post": {
                "tags": ["Dialogs"],
                "summary": "Reload an attendance dialog",
                "description": "Re-reads the lecture attendance of an open dialog, bypassing the roster cache.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown dialog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance-dialogs/{id}/close": {
            "post": {
                "tags": ["Dialogs"],
                "summary": "Dismiss an attendance dialog",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown dialog", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "OpenDialogRequest": {
            "type": "object",
            "properties": {
                "lectureId": {"type": "string"},
                "lectureTitle": {"type": "string"},
                "locale": {"type": "string"}
            },
            "required": ["lectureId"]
        },
        "UpdateDialogRequest": {
            "type": "object",
            "properties": {
                "open": {"type": "boolean"},
                "lectureId": {"type": "string"},
                "lectureTitle": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

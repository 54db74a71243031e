package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Exam Duty API",
        "description": "Exam invigilation scheduling: rosters, allocation runs, duty tables, statistics and exports.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Admin authentication"},
        {"name": "Rosters", "description": "Allocation input tables"},
        {"name": "Allocations", "description": "Allocation runs and duty tables"},
        {"name": "Statistics", "description": "Duty workload statistics"},
        {"name": "Exports", "description": "Asynchronous duty table exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate the scheduler admin",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token for a new token pair",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/rosters/templates": {
            "get": {
                "tags": ["Rosters"],
                "summary": "Example payloads for every roster table",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/rosters/rooms": {
            "get": {
                "tags": ["Rosters"],
                "summary": "List the room roster",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Rosters"],
                "security": [{"BearerAuth": []}],
                "summary": "Replace the room roster",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceRoomsRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/rosters/staff": {
            "get": {
                "tags": ["Rosters"],
                "summary": "List the staff roster",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Rosters"],
                "security": [{"BearerAuth": []}],
                "summary": "Replace the staff roster",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceStaffRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/rosters/timeslots": {
            "get": {
                "tags": ["Rosters"],
                "summary": "List the timeslot table in priority order",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Rosters"],
                "security": [{"BearerAuth": []}],
                "summary": "Replace the timeslot table",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceTimeSlotsRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/rosters/sessions": {
            "get": {
                "tags": ["Rosters"],
                "summary": "List the exam session table",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Rosters"],
                "security": [{"BearerAuth": []}],
                "summary": "Replace the exam session table",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceSessionsRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/rosters/fixed-sessions": {
            "get": {
                "tags": ["Rosters"],
                "summary": "List the fixed session table",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Rosters"],
                "security": [{"BearerAuth": []}],
                "summary": "Replace the fixed session table",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceFixedSessionsRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/allocations/run": {
            "post": {
                "tags": ["Allocations"],
                "security": [{"BearerAuth": []}],
                "summary": "Execute an allocation run over the stored rosters",
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/RunAllocationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Empty roster"}
                }
            }
        },
        "/allocations/latest": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Get the most recent allocation run",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No run yet"}
                }
            }
        },
        "/allocations/{id}": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Get one allocation run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/allocations/{id}/assignments": {
            "get": {
                "tags": ["Allocations"],
                "summary": "List the duty table of a run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "staff", "in": "query", "type": "string"},
                    {"name": "room", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["ok", "partial", "unassigned"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/allocations/{id}/export.csv": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Download the duty table of a run as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "CSV content"}}
            }
        },
        "/statistics/staff": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Per-staff duty counts, busiest first",
                "parameters": [
                    {"name": "runId", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/statistics/rooms": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Per-room usage counts, busiest first",
                "parameters": [
                    {"name": "runId", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/statistics/abnormal": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Staff with more than one duty on a single date",
                "parameters": [
                    {"name": "runId", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "security": [{"BearerAuth": []}],
                "summary": "Queue a duty table export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportJobRequest"}}
                ],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Get the state of an export job",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports/files": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export via its signed token",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File content"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {
                "refreshToken": {"type": "string"}
            },
            "required": ["refreshToken"]
        },
        "RoomItem": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "isLab": {"type": "boolean"},
                "isLarge": {"type": "boolean"}
            },
            "required": ["name"]
        },
        "ReplaceRoomsRequest": {
            "type": "object",
            "properties": {
                "rooms": {"type": "array", "items": {"$ref": "#/definitions/RoomItem"}}
            },
            "required": ["rooms"]
        },
        "StaffItem": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "availability": {"type": "string"}
            },
            "required": ["name"]
        },
        "ReplaceStaffRequest": {
            "type": "object",
            "properties": {
                "staff": {"type": "array", "items": {"$ref": "#/definitions/StaffItem"}}
            },
            "required": ["staff"]
        },
        "TimeSlotItem": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "period": {"type": "string"}
            },
            "required": ["date", "period"]
        },
        "ReplaceTimeSlotsRequest": {
            "type": "object",
            "properties": {
                "timeSlots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlotItem"}}
            },
            "required": ["timeSlots"]
        },
        "SessionItem": {
            "type": "object",
            "properties": {
                "class": {"type": "string"},
                "subject": {"type": "string"},
                "examType": {"type": "string"},
                "requiresLab": {"type": "boolean"},
                "requiresSplit": {"type": "boolean"}
            },
            "required": ["class", "subject", "examType"]
        },
        "ReplaceSessionsRequest": {
            "type": "object",
            "properties": {
                "sessions": {"type": "array", "items": {"$ref": "#/definitions/SessionItem"}}
            },
            "required": ["sessions"]
        },
        "FixedSessionItem": {
            "type": "object",
            "properties": {
                "class": {"type": "string"},
                "subject": {"type": "string"},
                "examType": {"type": "string"},
                "date": {"type": "string"},
                "period": {"type": "string"},
                "room": {"type": "string"},
                "invigilators": {"type": "integer", "minimum": 1, "maximum": 2},
                "note": {"type": "string"}
            },
            "required": ["class", "subject", "examType", "date", "period", "room", "invigilators"]
        },
        "ReplaceFixedSessionsRequest": {
            "type": "object",
            "properties": {
                "fixedSessions": {"type": "array", "items": {"$ref": "#/definitions/FixedSessionItem"}}
            }
        },
        "RunAllocationRequest": {
            "type": "object",
            "properties": {
                "quota": {"type": "integer", "minimum": 1, "maximum": 10}
            }
        },
        "ExportJobRequest": {
            "type": "object",
            "properties": {
                "runId": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["runId", "format"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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

package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "KidsRead API",
        "description": "Reading education backend with period-based advice reports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and session management"},
        {"name": "Students", "description": "Kid student profiles"},
        {"name": "Ebooks", "description": "Reading catalogue"},
        {"name": "Reports", "description": "Period-based reading advice reports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Refresh token expired or revoked"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List kid students",
                "parameters": [
                    {"name": "user_id", "in": "query", "type": "integer"},
                    {"name": "grade_id", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register kid student",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ebooks": {
            "get": {
                "tags": ["Ebooks"],
                "summary": "List catalogue e-books",
                "parameters": [
                    {"name": "category_id", "in": "query", "type": "integer"},
                    {"name": "grade_id", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/advice/weekly": {
            "get": {
                "tags": ["Reports"],
                "summary": "Weekly reading advice report",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "integer", "required": true},
                    {"name": "week_offset", "in": "query", "type": "integer", "description": "Week offset, e.g. -1 for last week"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid parameters"},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/reports/advice/custom": {
            "get": {
                "tags": ["Reports"],
                "summary": "Advice report for a custom date range",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "integer", "required": true},
                    {"name": "start_date", "in": "query", "type": "string", "required": true, "description": "YYYY-MM-DD"},
                    {"name": "end_date", "in": "query", "type": "string", "required": true, "description": "YYYY-MM-DD"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid date range"}
                }
            }
        },
        "/reports/advice/short": {
            "get": {
                "tags": ["Reports"],
                "summary": "Short one-line reading advice",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "integer", "required": true},
                    {"name": "period", "in": "query", "type": "string", "description": "week, month or year"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/advice/history": {
            "get": {
                "tags": ["Reports"],
                "summary": "Historical advice reports",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "501": {"description": "Not implemented"}
                }
            }
        },
        "/reports/advice/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download an advice report as PDF or CSV",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "integer", "required": true},
                    {"name": "period", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "description": "pdf or csv"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Invalid parameters"}
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
                "success": {"type": "boolean"},
                "message": {"type": "string"},
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

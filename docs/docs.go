// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List every user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserListEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            }
        },
        "/users/filter": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Filter users",
                "parameters": [
                    {"type": "string", "description": "Lower creation day bound (2006-01-02 or RFC 3339)", "name": "startingDate", "in": "query"},
                    {"type": "string", "description": "Upper creation day bound, inclusive", "name": "endingDate", "in": "query"},
                    {"type": "string", "description": "Role", "name": "role", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserListEnvelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            }
        },
        "/users/clients": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List clients",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserListEnvelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a client",
                "parameters": [
                    {"description": "Client", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createClientRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserEnvelope"}},
                    "400": {"description": "validation failure or duplicate username, phone or email", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            }
        },
        "/users/employee-clients": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Clients whose phone appears on a non-archived lead allocated to the caller.",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List the caller's clients",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserListEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            }
        },
        "/users/employees": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List employees",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserListEnvelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create an employee",
                "parameters": [
                    {"description": "Employee", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createEmployeeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserEnvelope"}},
                    "400": {"description": "validation failure or duplicate username, phone or email", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            }
        },
        "/users/{userId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user by id",
                "parameters": [{"type": "string", "description": "User id", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserEnvelope"}},
                    "401": {"description": "unknown user", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a user",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "userId", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserEnvelope"}},
                    "400": {"description": "unknown user or validation failure", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete a user",
                "parameters": [{"type": "string", "description": "User id", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserEnvelope"}},
                    "400": {"description": "unknown user", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            }
        },
        "/users/{userId}/role": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Change a user's role",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "userId", "in": "path", "required": true},
                    {"description": "New role", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "401": {"description": "unknown user", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            }
        },
        "/admin/users": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Only registered when ALLOW_PURGE=true. Requires the X-Confirm-Purge: users header.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Delete every user",
                "parameters": [{"type": "string", "description": "Must be \"users\"", "name": "X-Confirm-Purge", "in": "header", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Envelope"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        }
    },
    "definitions": {
        "domain.Lead": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "clientPhone": {"type": "string"},
                "allocatedTo": {"type": "array", "items": {"type": "string"}},
                "isArchived": {"type": "boolean"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "username": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "leads": {"type": "array", "items": {"$ref": "#/definitions/domain.Lead"}}
            }
        },
        "handler.Envelope": {
            "type": "object",
            "properties": {
                "result": {},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.UserEnvelope": {
            "type": "object",
            "properties": {
                "result": {"$ref": "#/definitions/domain.User"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.UserListEnvelope": {
            "type": "object",
            "properties": {
                "result": {"type": "array", "items": {"$ref": "#/definitions/domain.User"}},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.createClientRequest": {
            "type": "object",
            "required": ["firstName", "lastName", "username", "phone"],
            "properties": {
                "firstName": {"type": "string", "minLength": 2},
                "lastName": {"type": "string", "minLength": 2},
                "username": {"type": "string", "minLength": 2},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "handler.createEmployeeRequest": {
            "type": "object",
            "required": ["firstName", "lastName", "username", "password", "phone"],
            "properties": {
                "firstName": {"type": "string", "minLength": 2},
                "lastName": {"type": "string", "minLength": 2},
                "username": {"type": "string", "minLength": 2},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "handler.updateRoleRequest": {
            "type": "object",
            "required": ["role"],
            "properties": {
                "role": {"type": "string"}
            }
        },
        "handler.updateUserRequest": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string", "minLength": 2},
                "lastName": {"type": "string", "minLength": 2},
                "username": {"type": "string", "minLength": 2},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"}
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
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "User Directory API",
	Description:      "Employees, clients and their lead-based scoping.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

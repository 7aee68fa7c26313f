// Package docs holds the OpenAPI description served at /swagger/.
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a club member",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterInput"}}],
                "responses": {
                    "201": {"description": "Created user"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Email already in use", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in and receive a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginInput"}}],
                "responses": {
                    "200": {"description": "Token and user"},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/tournaments": {
            "get": {
                "tags": ["tournaments"],
                "summary": "List tournaments",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "status", "type": "string", "enum": ["upcoming", "in-progress", "completed"]},
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "offset", "type": "integer"}
                ],
                "responses": {"200": {"description": "Tournaments"}, "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "tags": ["tournaments"],
                "summary": "Get a tournament with its bracket",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "tournamentID", "type": "integer", "required": true}],
                "responses": {"200": {"description": "Tournament"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tournaments/create": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Create a tournament",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTournament"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/Error"}}, "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tournaments/update": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Update tournament details",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTournament"}}],
                "responses": {"200": {"description": "Updated"}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/Error"}}, "409": {"description": "Concurrent modification", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tournaments/delete": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Delete a tournament",
                "parameters": [{"in": "query", "name": "id", "type": "integer", "required": true}],
                "responses": {"200": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tournaments/register": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Register the caller for a tournament",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TournamentID"}}],
                "responses": {"200": {"description": "Registered"}, "400": {"description": "Tournament already started", "schema": {"$ref": "#/definitions/Error"}}, "409": {"description": "Already registered", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tournaments/unregister": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Withdraw the caller from a tournament",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TournamentID"}}],
                "responses": {"200": {"description": "Unregistered"}, "400": {"description": "Not registered or already started", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tournaments/generate-pairings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Seed participants by rating and build the bracket",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TournamentID"}}],
                "responses": {"200": {"description": "Bracket generated"}, "400": {"description": "Participant count not a power of two, or tournament started", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tournaments/manual-pairing": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Replace the bracket with admin-chosen first round pairings",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ManualPairing"}}],
                "responses": {"200": {"description": "Pairings saved"}, "400": {"description": "Invalid pairing", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/tournaments/update-match": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Record a match result",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateMatch"}}],
                "responses": {"200": {"description": "Result recorded"}, "400": {"description": "Tied score, winner mismatch or match already completed", "schema": {"$ref": "#/definitions/Error"}}, "404": {"description": "Tournament or match not found", "schema": {"$ref": "#/definitions/Error"}}, "409": {"description": "Concurrent modification", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["notifications"],
                "summary": "List the caller's notifications",
                "parameters": [{"in": "query", "name": "limit", "type": "integer"}, {"in": "query", "name": "unread", "type": "boolean"}],
                "responses": {"200": {"description": "Notifications and unread count"}}
            }
        },
        "/notifications/mark-read": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["notifications"],
                "summary": "Mark notifications as read",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"ids": {"type": "array", "items": {"type": "integer"}}}}}],
                "responses": {"200": {"description": "Updated count"}}
            }
        },
        "/notifications/clear": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["notifications"],
                "summary": "Delete all of the caller's notifications",
                "responses": {"200": {"description": "Deleted count"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/ws/tournaments/{tournamentID}": {
            "get": {
                "tags": ["tournaments"],
                "summary": "Subscribe to bracket updates of a tournament",
                "parameters": [{"in": "path", "name": "tournamentID", "type": "integer", "required": true}],
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "definitions": {
        "Error": {"type": "object", "properties": {"error": {"type": "string"}}},
        "RegisterInput": {"type": "object", "properties": {"first_name": {"type": "string"}, "last_name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "manual_rating": {"type": "integer"}}},
        "LoginInput": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "TournamentID": {"type": "object", "properties": {"tournamentId": {"type": "integer"}}},
        "CreateTournament": {"type": "object", "properties": {"name": {"type": "string"}, "type": {"type": "string", "enum": ["single", "double"]}, "event_date": {"type": "string", "format": "date-time"}, "time_control": {"type": "string"}, "admin_comment": {"type": "string"}, "participants": {"type": "array", "items": {"type": "integer"}}}},
        "UpdateTournament": {"type": "object", "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "type": {"type": "string", "enum": ["single", "double"]}, "event_date": {"type": "string", "format": "date-time"}, "time_control": {"type": "string"}, "admin_comment": {"type": "string"}, "participants": {"type": "array", "items": {"type": "integer"}}}},
        "Match": {"type": "object", "properties": {"round": {"type": "integer"}, "match_number": {"type": "integer"}, "player1": {"type": "integer"}, "player2": {"type": "integer"}}},
        "ManualPairing": {"type": "object", "properties": {"tournamentId": {"type": "integer"}, "matches": {"type": "array", "items": {"$ref": "#/definitions/Match"}}}},
        "UpdateMatch": {"type": "object", "properties": {"tournamentId": {"type": "integer"}, "matchId": {"type": "string", "example": "R1M1"}, "score1": {"type": "integer"}, "score2": {"type": "integer"}, "winnerId": {"type": "integer"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Chess Club API",
	Description:      "Club members, tournaments, elimination brackets and notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

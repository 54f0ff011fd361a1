// Package docs holds the OpenAPI description served under /swagger/.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List my events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ListMyEventsSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Create a new event",
                "parameters": [
                    {"description": "Event data", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.CreateEventSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true},
                    {"type": "string", "description": "Invite code of a guest", "name": "inviteCode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.CreateEventSuccessResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Update an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.CreateEventSuccessResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Delete an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "data.success is true", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/events/{eventID}/invites": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["invites"],
                "summary": "List invites of an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventID", "in": "path", "required": true},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ListInvitesSuccessResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/invites": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invites"],
                "summary": "Create an invite",
                "parameters": [
                    {"description": "Invite data", "name": "invite", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateInviteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.CreateInviteSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/invites/accept": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invites"],
                "summary": "Accept an invite",
                "parameters": [
                    {"description": "Invite code and attendee details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.AcceptInviteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.InviteSuccessResponse"}},
                    "400": {"description": "error.code: bad_request, invite_already_accepted", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "429": {"description": "error.code: rate_limited", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/invites/scan": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invites"],
                "summary": "Check an attendee in",
                "parameters": [
                    {"description": "Invite code read from the QR code", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ScanInviteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ScanInviteSuccessResponse"}},
                    "400": {"description": "error.code: bad_request, invite_not_accepted, invite_already_scanned", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "429": {"description": "error.code: rate_limited", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/invites/{code}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["invites"],
                "summary": "Fetch an invite by code",
                "parameters": [
                    {"type": "string", "description": "Invite code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.GetInviteSuccessResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "429": {"description": "error.code: rate_limited", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/media": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "List an event gallery",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventId", "in": "query", "required": true},
                    {"type": "string", "description": "Invite code of a guest", "name": "inviteCode", "in": "query"},
                    {"type": "boolean", "description": "Sign a display URL for each item", "name": "includeUrls", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ListMediaSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Upload a gallery file",
                "parameters": [
                    {"type": "file", "description": "Image or video", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventId", "in": "formData", "required": true},
                    {"type": "string", "description": "Caption", "name": "caption", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.MediaSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "413": {"description": "error.code: payload_too_large", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "error.code: not_configured", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Delete a gallery file",
                "parameters": [
                    {"description": "Media to delete", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.DeleteMediaRequest"}}
                ],
                "responses": {
                    "200": {"description": "data.success is true", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/media/url": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Sign a gallery file URL",
                "parameters": [
                    {"type": "string", "description": "Stored file path", "name": "path", "in": "query", "required": true},
                    {"type": "string", "description": "Event ID (UUID)", "name": "eventId", "in": "query", "required": true},
                    {"type": "string", "description": "Invite code of a guest", "name": "inviteCode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.SignedURLSuccessResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "data.status is ok", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.AcceptInviteRequest": {
            "type": "object",
            "properties": {
                "attendeeEmail": {"type": "string"},
                "attendeeName": {"type": "string"},
                "inviteCode": {"type": "string"}
            }
        },
        "controllers.CreateEventRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "event_date": {"type": "string"},
                "location": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "controllers.CreateEventSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.Event"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.CreateInviteRequest": {
            "type": "object",
            "properties": {
                "attendeeEmail": {"type": "string"},
                "attendeeName": {"type": "string"},
                "eventId": {"type": "string"}
            }
        },
        "controllers.CreateInviteSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.CreatedInvite"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.DeleteMediaRequest": {
            "type": "object",
            "properties": {
                "mediaId": {"type": "string"}
            }
        },
        "controllers.GetInviteSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.InviteWithEvent"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.InviteSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.Invite"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ListInvitesResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Invite"}},
                "pagination": {"$ref": "#/definitions/helpers.PaginationMeta"}
            }
        },
        "controllers.ListInvitesSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.ListInvitesResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ListMediaSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.GalleryItem"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ListMyEventsSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.Event"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.MediaSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.Media"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ScanInviteRequest": {
            "type": "object",
            "properties": {
                "inviteCode": {"type": "string"}
            }
        },
        "controllers.ScanInviteSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.ScanResult"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.SignedURLSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "object", "properties": {"url": {"type": "string"}}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.UpdateEventRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "event_date": {"type": "string"},
                "location": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "domain.CreatedInvite": {
            "allOf": [
                {"$ref": "#/definitions/domain.Invite"},
                {"type": "object", "properties": {"emailSent": {"type": "boolean"}, "emailError": {"type": "string"}}}
            ]
        },
        "domain.Event": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "event_date": {"type": "string"},
                "id": {"type": "string"},
                "location": {"type": "string"},
                "title": {"type": "string"},
                "updated_at": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "domain.GalleryItem": {
            "allOf": [
                {"$ref": "#/definitions/domain.Media"},
                {"type": "object", "properties": {"url": {"type": "string"}}}
            ]
        },
        "domain.Invite": {
            "type": "object",
            "properties": {
                "accepted_at": {"type": "string"},
                "attendee_email": {"type": "string"},
                "attendee_name": {"type": "string"},
                "created_at": {"type": "string"},
                "event_id": {"type": "string"},
                "id": {"type": "string"},
                "invite_code": {"type": "string"},
                "qr_code_data": {"type": "string"},
                "scanned_at": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "accepted", "scanned"]}
            }
        },
        "domain.InviteWithEvent": {
            "allOf": [
                {"$ref": "#/definitions/domain.Invite"},
                {"type": "object", "properties": {"events": {"$ref": "#/definitions/domain.Event"}}}
            ]
        },
        "domain.Media": {
            "type": "object",
            "properties": {
                "caption": {"type": "string"},
                "created_at": {"type": "string"},
                "event_id": {"type": "string"},
                "file_name": {"type": "string"},
                "file_path": {"type": "string"},
                "file_size": {"type": "integer"},
                "file_type": {"type": "string"},
                "id": {"type": "string"},
                "uploaded_by": {"type": "string"}
            }
        },
        "domain.ScanResult": {
            "type": "object",
            "properties": {
                "attendeeEmail": {"type": "string"},
                "attendeeName": {"type": "string"},
                "eventDate": {"type": "string"},
                "eventLocation": {"type": "string"},
                "eventTitle": {"type": "string"},
                "scannedAt": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "helpers.PaginationMeta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the identity provider's access token.",
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
	Title:            "EventFlow API",
	Description:      "Event management: events, invites with QR check-in, and media galleries.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

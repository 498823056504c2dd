// Package docs holds the OpenAPI document served under /api/swagger.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in with username and password",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.LoginInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Session"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "429": {"description": "Too Many Requests"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a commenter account",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.RegisterInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.Session"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/blogs": {
            "get": {
                "tags": ["blogs"],
                "summary": "List posts",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "size", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "tag", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PostPage"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["blogs"],
                "summary": "Create a post",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.PostInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Post"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/blogs/{id}": {
            "get": {
                "tags": ["blogs"],
                "summary": "Get a post and count a view",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Post"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["blogs"],
                "summary": "Update a post",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.PostInput"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Post"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["blogs"],
                "summary": "Delete a post with its comments, images and tag links",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/blogs/{id}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["blogs"],
                "summary": "Toggle between published and hidden",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Post"}}}
            }
        },
        "/blogs/{id}/comments": {
            "get": {
                "tags": ["comments"],
                "summary": "List comments of a post",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Comment"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["comments"],
                "summary": "Add a comment",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.CommentInput"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Comment"}}}
            }
        },
        "/blogs/{id}/comments/{commentId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["comments"],
                "summary": "Remove a comment",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "commentId", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/projects": {
            "get": {
                "tags": ["projects"],
                "summary": "List projects",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Project"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["projects"],
                "summary": "Create a project",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.ProjectInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Project"}}}
            }
        },
        "/projects/{id}": {
            "get": {
                "tags": ["projects"],
                "summary": "Get a project",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Project"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["projects"],
                "summary": "Update a project",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.ProjectInput"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Project"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["projects"],
                "summary": "Delete a project",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/tags": {
            "get": {
                "tags": ["labels"],
                "summary": "Tags with post counts, newest first",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/server.labelCount"}}}}
            }
        },
        "/technologies": {
            "get": {
                "tags": ["labels"],
                "summary": "Technologies with project counts, newest first",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/server.labelCount"}}}}
            }
        },
        "/users/admin-profile": {
            "get": {
                "tags": ["users"],
                "summary": "Public profile of the site owner",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Author"}}}
            }
        },
        "/users/avatar": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Update the avatar of the current account",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"type": "object", "properties": {"avatar": {"type": "string"}}}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}}}
            }
        },
        "/files/upload": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["files"],
                "summary": "Upload a file",
                "consumes": ["multipart/form-data"],
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/service.StoredFile"}}}
            }
        },
        "/files/{filename}": {
            "get": {
                "tags": ["files"],
                "summary": "Download an uploaded file",
                "parameters": [{"type": "string", "name": "filename", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "code": {"type": "string"}, "details": {"type": "string"}}
        },
        "models.Author": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "username": {"type": "string"}, "nickname": {"type": "string"}, "avatar": {"type": "string"}}
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "username": {"type": "string"}, "email": {"type": "string"},
                "nickname": {"type": "string"}, "avatar": {"type": "string"}, "role": {"type": "string"},
                "created_at": {"type": "string"}, "updated_at": {"type": "string"}
            }
        },
        "models.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "user_id": {"type": "integer"}, "title": {"type": "string"},
                "excerpt": {"type": "string"}, "content": {"type": "string"}, "cover": {"type": "string"},
                "views": {"type": "integer"}, "comments": {"type": "integer"}, "status": {"type": "string"},
                "author": {"$ref": "#/definitions/models.Author"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "content_images": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string"}, "updated_at": {"type": "string"}
            }
        },
        "models.PostPage": {
            "type": "object",
            "properties": {
                "list": {"type": "array", "items": {"$ref": "#/definitions/models.Post"}},
                "total": {"type": "integer"}, "page": {"type": "integer"}, "size": {"type": "integer"}
            }
        },
        "models.Comment": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "post_id": {"type": "integer"}, "user_id": {"type": "integer"},
                "parent_id": {"type": "integer"}, "content": {"type": "string"},
                "author": {"$ref": "#/definitions/models.Author"}, "created_at": {"type": "string"}
            }
        },
        "models.Project": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "user_id": {"type": "integer"}, "title": {"type": "string"},
                "description": {"type": "string"}, "image": {"type": "string"}, "link": {"type": "string"},
                "sort_order": {"type": "integer"}, "tech_stack": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string"}, "updated_at": {"type": "string"}
            }
        },
        "server.labelCount": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "name": {"type": "string"}, "created_at": {"type": "string"},
                "post_count": {"type": "integer"}, "project_count": {"type": "integer"}
            }
        },
        "service.LoginInput": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "service.RegisterInput": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}, "email": {"type": "string"}, "nickname": {"type": "string"}}
        },
        "service.Session": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}, "user_id": {"type": "integer"}, "username": {"type": "string"},
                "display_name": {"type": "string"}, "avatar": {"type": "string"}, "role": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "service.PostInput": {
            "type": "object",
            "properties": {
                "title": {"type": "string"}, "excerpt": {"type": "string"}, "content": {"type": "string"},
                "cover": {"type": "string"}, "status": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "content_images": {"type": "array", "items": {"type": "string"}}
            }
        },
        "service.CommentInput": {
            "type": "object",
            "properties": {"content": {"type": "string"}, "parent_id": {"type": "integer"}}
        },
        "service.ProjectInput": {
            "type": "object",
            "properties": {
                "title": {"type": "string"}, "description": {"type": "string"}, "image": {"type": "string"},
                "link": {"type": "string"}, "sort_order": {"type": "integer"},
                "tech_stack": {"type": "array", "items": {"type": "string"}}
            }
        },
        "service.StoredFile": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"}, "url": {"type": "string"}, "preview_url": {"type": "string"},
                "content_type": {"type": "string"}, "size_bytes": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "folio API",
	Description:      "Blog and portfolio backend of a personal site.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs holds the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Registration"],
                "summary": "Start registration",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/entity.RegisterRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.OTPResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Registration"],
                "summary": "Cancel registration",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "query", "name": "token", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.MessageResponse"}}
                }
            }
        },
        "/auth/register/verify": {
            "post": {
                "tags": ["Registration"],
                "summary": "Verify registration OTP",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/entity.VerifyRegistrationRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/entity.AuthResponse"}},
                    "401": {"description": "Invalid OTP", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}},
                    "410": {"description": "OTP or session expired", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}},
                    "423": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/auth/register/resend": {
            "post": {
                "tags": ["Registration"],
                "summary": "Resend registration OTP",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/entity.ResendRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.OTPResponse"}},
                    "429": {"description": "Cooldown active", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/auth/password/forgot": {
            "post": {
                "tags": ["Password"],
                "summary": "Request password reset",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/entity.ForgotPasswordRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.OTPResponse"}}
                }
            }
        },
        "/auth/password/verify": {
            "post": {
                "tags": ["Password"],
                "summary": "Verify password reset OTP",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/entity.VerifyPasswordResetRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.MessageResponse"}}
                }
            }
        },
        "/auth/password/resend": {
            "post": {
                "tags": ["Password"],
                "summary": "Resend password reset OTP",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/entity.ResendRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.OTPResponse"}}
                }
            }
        },
        "/auth/password/reset": {
            "post": {
                "tags": ["Password"],
                "summary": "Set new password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/entity.ResetPasswordRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.MessageResponse"}},
                    "410": {"description": "Session expired", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/auth/password": {
            "delete": {
                "tags": ["Password"],
                "summary": "Cancel password reset",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "query", "name": "token", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.MessageResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/entity.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.AuthResponse"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}},
                    "404": {"description": "Account not found", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Logout user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "schema": {"$ref": "#/definitions/entity.LogoutRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.LogoutResponse"}}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Profile"],
                "summary": "Get profile",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.UserResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Profile"],
                "summary": "Update profile",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/entity.UpdateProfileRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.UserResponse"}},
                    "429": {"description": "Cooldown active", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        },
        "/languages": {
            "get": {
                "tags": ["System"],
                "summary": "List languages",
                "description": "ISO 639-1 codes accepted for native_language and learning_language, sorted by name",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entity.Language"}}}
                }
            }
        },
        "/profile/learning-language": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Profile"],
                "summary": "Update learning language",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/entity.UpdateLearningLanguageRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.UserResponse"}},
                    "429": {"description": "Cooldown active", "schema": {"$ref": "#/definitions/controller.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controller.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "otp_invalid"},
                "details": {"type": "string", "example": "Invalid OTP"}
            }
        },
        "entity.RegisterRequest": {
            "type": "object",
            "required": ["full_name", "username", "identifier", "date_of_birth", "gender", "country", "native_language", "learning_language"],
            "properties": {
                "full_name": {"type": "string"},
                "username": {"type": "string"},
                "identifier": {"type": "string", "example": "user@example.com"},
                "date_of_birth": {"type": "string", "example": "2000-01-31"},
                "gender": {"type": "string", "enum": ["male", "female", "other"]},
                "country": {"type": "string"},
                "native_language": {"type": "string", "example": "en"},
                "learning_language": {"type": "string", "example": "es"}
            }
        },
        "entity.VerifyRegistrationRequest": {
            "type": "object",
            "required": ["token", "identifier", "code", "password", "confirm_password"],
            "properties": {
                "token": {"type": "string"},
                "identifier": {"type": "string"},
                "code": {"type": "string", "example": "123456"},
                "password": {"type": "string"},
                "confirm_password": {"type": "string"}
            }
        },
        "entity.ResendRequest": {
            "type": "object",
            "required": ["token"],
            "properties": {"token": {"type": "string"}}
        },
        "entity.ForgotPasswordRequest": {
            "type": "object",
            "required": ["identifier"],
            "properties": {"identifier": {"type": "string"}}
        },
        "entity.VerifyPasswordResetRequest": {
            "type": "object",
            "required": ["token", "code"],
            "properties": {
                "token": {"type": "string"},
                "code": {"type": "string", "example": "123456"}
            }
        },
        "entity.ResetPasswordRequest": {
            "type": "object",
            "required": ["token", "password", "confirm_password"],
            "properties": {
                "token": {"type": "string"},
                "password": {"type": "string"},
                "confirm_password": {"type": "string"}
            }
        },
        "entity.Language": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "en"},
                "name": {"type": "string", "example": "English"}
            }
        },
        "entity.LoginRequest": {
            "type": "object",
            "required": ["identifier", "password"],
            "properties": {
                "identifier": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "entity.LogoutRequest": {
            "type": "object",
            "properties": {"logout_all": {"type": "boolean"}}
        },
        "entity.LogoutResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "tokens_revoked": {"type": "integer"}
            }
        },
        "entity.UpdateProfileRequest": {
            "type": "object",
            "required": ["full_name", "gender", "country", "native_language", "learning_language"],
            "properties": {
                "full_name": {"type": "string"},
                "gender": {"type": "string", "enum": ["male", "female", "other"]},
                "country": {"type": "string"},
                "native_language": {"type": "string"},
                "learning_language": {"type": "string"}
            }
        },
        "entity.UpdateLearningLanguageRequest": {
            "type": "object",
            "required": ["learning_language"],
            "properties": {"learning_language": {"type": "string"}}
        },
        "entity.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "entity.OTPResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"},
                "identifier": {"type": "string"},
                "channel": {"type": "string", "enum": ["email", "sms"]},
                "expires_at": {"type": "string"}
            }
        },
        "entity.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/entity.UserResponse"},
                "expires_at": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "entity.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "full_name": {"type": "string"},
                "date_of_birth": {"type": "string"},
                "gender": {"type": "string"},
                "country": {"type": "string"},
                "native_language": {"type": "string"},
                "native_language_name": {"type": "string"},
                "learning_language": {"type": "string"},
                "learning_language_name": {"type": "string"},
                "learning_language_updated_at": {"type": "string"},
                "registered_at": {"type": "string"},
                "last_login_at": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Enter JWT Bearer token in format: Bearer {token}",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "ChatLink Authentication Service API",
	Description:      "OTP-gated registration, password reset, login and profile management",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

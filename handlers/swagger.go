package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves a small Swagger UI page and the OpenAPI document.
func RegisterSwagger(r *gin.Engine) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})
	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>nutricoach - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "nutricoach-backend", "version": "v1.0.0" },
  "paths": {
    "/api/register": {
      "post": {
        "summary": "Create an account",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name","email","password","role"],"properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"},"role":{"type":"string","enum":["admin","nutritionist","patient"]}}}}}},
        "responses": { "201": { "description": "user created" }, "400": { "description": "validation error" }, "409": { "description": "email already in use" } }
      }
    },
    "/api/login": {
      "post": {
        "summary": "Log in with email and password",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["email","password"],"properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "token and user returned" }, "401": { "description": "invalid credentials" }, "404": { "description": "unknown email" } }
      }
    },
    "/api/profile": {
      "get": { "summary": "Own account and profile", "responses": { "200": { "description": "user and profile" } } },
      "put": { "summary": "Patch own profile fields", "responses": { "200": { "description": "updated profile" } } }
    },
    "/api/users": {
      "get": { "summary": "List users with profiles (admin)", "responses": { "200": { "description": "user list" } } },
      "post": { "summary": "Create user and profile transactionally (admin)", "responses": { "201": { "description": "user created" }, "409": { "description": "email already in use" } } }
    },
    "/api/users/{id}": {
      "get": { "summary": "Fetch one user with profile (admin)", "responses": { "200": { "description": "user and profile" }, "404": { "description": "unknown user" } } },
      "put": { "summary": "Update user and patch profile transactionally (admin)", "responses": { "200": { "description": "updated user" } } },
      "delete": { "summary": "Delete user and cascade profile (admin)", "responses": { "200": { "description": "deleted" } } }
    },
    "/api/statistics": {
      "get": { "summary": "Platform aggregates (admin)", "responses": { "200": { "description": "summary" } } }
    },
    "/api/my-plans": {
      "get": { "summary": "Plans assigned to the caller (patient)", "responses": { "200": { "description": "plan list" } } }
    },
    "/api/my-appointments": {
      "get": { "summary": "Own appointments (patient)", "responses": { "200": { "description": "appointment list" } } }
    },
    "/api/appointments": {
      "get": { "summary": "Appointments to manage (nutritionist)", "responses": { "200": { "description": "appointment list" } } },
      "post": { "summary": "Book an appointment (patient)", "responses": { "201": { "description": "appointment created" } } }
    },
    "/api/appointments/{id}": {
      "put": { "summary": "Confirm, cancel or complete an appointment (nutritionist)", "responses": { "200": { "description": "status updated" }, "404": { "description": "unknown appointment" } } }
    },
    "/api/progress": {
      "post": { "summary": "Record weekly progress (patient)", "responses": { "201": { "description": "entry created" }, "400": { "description": "entry exists for this week" } } }
    },
    "/api/my-progress": {
      "get": { "summary": "Own progress entries (patient)", "responses": { "200": { "description": "entries" } } }
    },
    "/api/progress/photo": {
      "post": { "summary": "Upload a progress photo (patient, multipart)", "responses": { "201": { "description": "storage key and presigned URL" } } }
    },
    "/api/nutrition-plans": {
      "get": { "summary": "Authored plans (nutritionist)", "responses": { "200": { "description": "plan list" } } },
      "post": { "summary": "Create a nutrition plan (nutritionist)", "responses": { "201": { "description": "plan created" } } }
    },
    "/api/nutrition-plans/{id}": {
      "get": { "summary": "Fetch one plan (author or its patient)", "responses": { "200": { "description": "plan" }, "403": { "description": "not yours" }, "404": { "description": "unknown plan" } } },
      "put": { "summary": "Replace the plan body (nutritionist)", "responses": { "200": { "description": "updated plan" } } },
      "delete": { "summary": "Delete a plan (nutritionist)", "responses": { "200": { "description": "deleted" } } }
    },
    "/api/patients": {
      "get": { "summary": "Patient roster (nutritionist)", "responses": { "200": { "description": "patients" } } }
    },
    "/api/messages": {
      "get": { "summary": "Own conversations", "responses": { "200": { "description": "messages" } } },
      "post": { "summary": "Send a message", "responses": { "201": { "description": "message sent" } } }
    }
  }
}`

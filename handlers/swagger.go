package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the document registry.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>docregistry - Swagger</title>
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
  "info": { "title": "docregistry", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Document": {"type":"object","properties":{"id":{"type":"string"},"name":{"type":"string"},"description":{"type":"string"},"createdAt":{"type":"string","format":"date-time"},"updatedAt":{"type":"string","format":"date-time"}}},
      "Error": {"type":"object","properties":{"error":{"type":"string","enum":["InvalidPayload","InvalidKeyword","InvalidId","NotFound","InternalError"]},"message":{"type":"string"}}}
    }
  },
  "paths": {
    "/api/documents": {
      "get": {
        "summary": "List documents, or search by name substring when keyword is given",
        "parameters": [{"name":"keyword","in":"query","required":false,"schema":{"type":"string"}}],
        "responses": { "200": { "description": "documents in insertion order" }, "400": { "description": "InvalidKeyword" } }
      },
      "post": {
        "summary": "Add a document",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name"],"properties":{"name":{"type":"string"},"description":{"type":"string"}}}}}},
        "responses": { "201": { "description": "created document" }, "400": { "description": "InvalidPayload" } }
      }
    },
    "/api/documents/{id}": {
      "get": { "summary": "Get a document", "responses": { "200": { "description": "document" }, "404": { "description": "NotFound" } } },
      "patch": {
        "summary": "Update name and/or description",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"description":{"type":"string"}}}}}},
        "responses": { "200": { "description": "updated document" }, "400": { "description": "InvalidPayload" }, "404": { "description": "NotFound" } }
      },
      "delete": { "summary": "Delete a document", "responses": { "200": { "description": "removed document" }, "404": { "description": "NotFound" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`

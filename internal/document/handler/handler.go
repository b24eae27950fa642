package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/docregistry/internal/document"
	"github.com/gogotex/docregistry/internal/document/service"
	"github.com/gogotex/docregistry/pkg/logger"
)

type createRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type updateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// RegisterDocumentRoutes mounts the document API on r.
//
//	POST   /api/documents             add
//	GET    /api/documents             list, or search with ?keyword=
//	GET    /api/documents/:id         get
//	PATCH  /api/documents/:id         update name/description
//	DELETE /api/documents/:id         delete, returns the removed document
func RegisterDocumentRoutes(r gin.IRouter, svc service.Service) {
	r.GET("/api/documents", func(c *gin.Context) {
		if keyword, ok := c.GetQuery("keyword"); ok {
			list, err := svc.FindDocuments(c.Request.Context(), keyword)
			if err != nil {
				writeError(c, err)
				return
			}
			c.JSON(http.StatusOK, list)
			return
		}
		list, err := svc.GetDocuments(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.POST("/api/documents", func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidPayload", "message": err.Error()})
			return
		}
		d, err := svc.AddDocument(c.Request.Context(), req.Name, req.Description)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, d)
	})

	r.GET("/api/documents/:id", func(c *gin.Context) {
		d, err := svc.GetDocument(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	})

	r.PATCH("/api/documents/:id", func(c *gin.Context) {
		var req updateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidPayload", "message": err.Error()})
			return
		}
		d, err := svc.UpdateDocument(c.Request.Context(), c.Param("id"), req.Name, req.Description)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	})

	r.DELETE("/api/documents/:id", func(c *gin.Context) {
		d, err := svc.DeleteDocument(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	})
}

func writeError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, document.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, document.ErrInvalidPayload),
		errors.Is(err, document.ErrInvalidKeyword),
		errors.Is(err, document.ErrInvalidID):
	default:
		status = http.StatusInternalServerError
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": document.Code(err), "message": err.Error()})
}

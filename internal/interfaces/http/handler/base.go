// Package handler implements the HTTP handlers of the posting API.
package handler

import (
	"net/http"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/infrastructure/logger"
	"github.com/erp/posting/internal/interfaces/http/dto"
	"github.com/erp/posting/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := logger.RequestID(c.Request.Context()); id != "" {
		return id
	}
	return c.GetHeader(logger.RequestIDHeader)
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message, getRequestID(c)))
}

// HandleError maps err to a status code by its kind and writes the error envelope.
// Fatal and configuration errors are logged with their cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, resp := dto.FromError(err, getRequestID(c))
	if status >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("Request failed",
			zap.String("kind", resp.Error.Kind),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, resp)
}

// bindJSON binds the request body, answering 400 with field details on failure
func (h *BaseHandler) bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if details := middleware.ValidationDetails(err); details != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", getRequestID(c), details))
			return false
		}
		h.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// bindList binds pagination query parameters into a repository filter sorted in defaultDir
// unless the request names an order_dir
func (h *BaseHandler) bindList(c *gin.Context, defaultDir string) (shared.Filter, bool) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return shared.Filter{}, false
	}
	f := shared.DefaultFilter()
	f.OrderDir = defaultDir
	if q.OrderDir != "" {
		f.OrderDir = q.OrderDir
	}
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	return f, true
}

// scope returns the request scope. Routes are expected to run behind middleware.ScopeMiddleware.
func (h *BaseHandler) scope(c *gin.Context) (shared.Scope, bool) {
	scope, ok := middleware.GetScope(c)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeMissingScope, "Request scope is missing", getRequestID(c)))
	}
	return scope, ok
}

func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog-service/internal/adapter/gin/middleware"
	"book-catalog-service/internal/usecase/book"
	apperrors "book-catalog-service/pkg/errors"
)

// BookHandler handles HTTP requests for book operations
type BookHandler struct {
	uc  book.Usecase
	log *zap.Logger
}

// NewBookHandler creates a new BookHandler instance
func NewBookHandler(uc book.Usecase, log *zap.Logger) *BookHandler {
	return &BookHandler{
		uc:  uc,
		log: log,
	}
}

// ListBooks handles GET /v1/books?page=&keyword=
func (h *BookHandler) ListBooks(c *gin.Context) {
	// a missing or unparsable page means the first page
	page, err := strconv.ParseInt(c.Query("page"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	resp, err := h.uc.List(c.Request.Context(), book.ListBooksRequest{
		Page:    page,
		Keyword: c.Query("keyword"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetBook handles GET /v1/books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	resp, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateBook handles POST /v1/books
func (h *BookHandler) CreateBook(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, h.log, apperrors.NewUnauthorizedError("login first to access this endpoint"))
		return
	}

	var req book.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create book request", zap.Error(err))
		respondBadBody(c, err)
		return
	}

	resp, err := h.uc.Create(c.Request.Context(), req, caller)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpdateBook handles PUT /v1/books/:id
func (h *BookHandler) UpdateBook(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, h.log, apperrors.NewUnauthorizedError("login first to access this endpoint"))
		return
	}

	var req book.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update book request", zap.Error(err))
		respondBadBody(c, err)
		return
	}

	resp, err := h.uc.Update(c.Request.Context(), c.Param("id"), req, caller)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteBook handles DELETE /v1/books/:id and returns the removed book.
func (h *BookHandler) DeleteBook(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, h.log, apperrors.NewUnauthorizedError("login first to access this endpoint"))
		return
	}

	resp, err := h.uc.Delete(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

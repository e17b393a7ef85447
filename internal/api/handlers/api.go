package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/bookmind/internal/services"
	"github.com/princeprakhar/bookmind/internal/utils"
	"github.com/princeprakhar/bookmind/pkg/logger"
)

// APIHandler serves the read-only JSON API.
type APIHandler struct {
	reviewService *services.ReviewService
	books         services.BookLookup
}

func NewAPIHandler(reviewService *services.ReviewService, books services.BookLookup) *APIHandler {
	return &APIHandler{reviewService: reviewService, books: books}
}

func (h *APIHandler) ListReviews(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", services.DefaultPageSize)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > services.MaxPageSize {
		limit = services.DefaultPageSize
	}

	reviews, total, err := h.reviewService.ListReviews(page, limit)
	if err != nil {
		logger.WithError(err).Error("api: list reviews")
		utils.SendInternalError(c, "Failed to fetch reviews")
		return
	}

	utils.SendPage(c, "Reviews retrieved successfully", reviews, utils.NewPagination(page, limit, total))
}

func (h *APIHandler) GetReview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.SendNotFound(c, "Review not found")
		return
	}

	review, err := h.reviewService.GetReview(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			utils.SendNotFound(c, "Review not found")
			return
		}
		logger.WithError(err).Error("api: get review")
		utils.SendInternalError(c, "Failed to fetch review")
		return
	}

	utils.SendSuccess(c, "Review retrieved successfully", review)
}

func (h *APIHandler) SearchBooks(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		utils.SendValidationError(c, "title is required")
		return
	}

	info, ok := h.books.Lookup(c.Request.Context(), title)
	if !ok {
		utils.SendError(c, http.StatusNotFound, "Book not found", nil)
		return
	}
	utils.SendSuccess(c, "Book found", info)
}

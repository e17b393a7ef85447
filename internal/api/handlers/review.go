package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/bookmind/internal/api/middleware"
	"github.com/princeprakhar/bookmind/internal/models"
	"github.com/princeprakhar/bookmind/internal/services"
	"github.com/princeprakhar/bookmind/pkg/logger"
)

type ReviewHandler struct {
	reviewService  *services.ReviewService
	commentService *services.CommentService
	books          services.BookLookup
	covers         services.CoverStorage
}

// NewReviewHandler wires the review pages. books and covers may be nil.
func NewReviewHandler(reviewService *services.ReviewService, commentService *services.CommentService,
	books services.BookLookup, covers services.CoverStorage) *ReviewHandler {
	return &ReviewHandler{
		reviewService:  reviewService,
		commentService: commentService,
		books:          books,
		covers:         covers,
	}
}

func (h *ReviewHandler) Index(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}

	reviews, total, err := h.reviewService.ListReviews(page, services.DefaultPageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	render(c, http.StatusOK, "index.html", gin.H{
		"Reviews": reviews,
		"Page":    page,
		"HasPrev": page > 1,
		"HasNext": int64(page*services.DefaultPageSize) < total,
		"Total":   total,
	})
}

func (h *ReviewHandler) AddPage(c *gin.Context) {
	form := services.ReviewInput{
		BookTitle:   c.Query("title"),
		Author:      c.Query("author"),
		CoverURL:    c.Query("cover_url"),
		Description: c.Query("description"),
		Status:      models.StatusRead,
	}
	h.renderForm(c, http.StatusOK, form, nil, false, 0)
}

func (h *ReviewHandler) Add(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var in services.ReviewInput
	if err := c.ShouldBind(&in); err != nil {
		// A non-numeric rating is reported by validation.
		in.Rating = 0
	}

	if err := h.attachCover(c, &in); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, in, map[string]string{"cover_file": err.Error()}, false, 0)
		return
	}
	h.fillFromLookup(c, &in)

	review, err := h.reviewService.CreateReview(identity, in)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, in, fields, false, 0)
			return
		}
		handleError(c, err)
		return
	}

	middleware.AddFlash(c, "Review published.", middleware.FlashSuccess)
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/review/%d", review.ID))
}

// attachCover uploads an optional cover file and points the review at it.
func (h *ReviewHandler) attachCover(c *gin.Context, in *services.ReviewInput) error {
	file, header, err := c.Request.FormFile("cover_file")
	if err != nil {
		return nil
	}
	defer file.Close()

	if h.covers == nil {
		logger.Debug("cover upload ignored, no storage configured")
		return nil
	}

	url, err := h.covers.UploadCover(c.Request.Context(), file, header)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCover) {
			return err
		}
		logger.WithError(err).Warn("cover upload failed")
		middleware.AddFlash(c, "The cover could not be uploaded; the review was saved without it.", middleware.FlashWarning)
		return nil
	}
	in.CoverURL = url
	return nil
}

// fillFromLookup completes missing author, cover and description from the
// book lookup. Lookup problems leave the input untouched.
func (h *ReviewHandler) fillFromLookup(c *gin.Context, in *services.ReviewInput) {
	if h.books == nil || in.BookTitle == "" {
		return
	}
	if in.Author != "" && in.CoverURL != "" && in.Description != "" {
		return
	}

	info, ok := h.books.Lookup(c.Request.Context(), in.BookTitle)
	if !ok {
		return
	}
	if in.Author == "" {
		in.Author = info.Author
	}
	if in.CoverURL == "" {
		in.CoverURL = info.CoverURL
	}
	if in.Description == "" {
		in.Description = info.Description
	}
}

func (h *ReviewHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.showReview(c, http.StatusOK, id, nil)
}

// showReview renders the review page; extra carries comment form state.
func (h *ReviewHandler) showReview(c *gin.Context, status int, id uint, extra gin.H) {
	identity := middleware.CurrentIdentity(c)

	review, err := h.reviewService.GetReview(id)
	if err != nil {
		handleError(c, err)
		return
	}
	likes, err := h.reviewService.LikeCount(id)
	if err != nil {
		handleError(c, err)
		return
	}
	liked, err := h.reviewService.LikedBy(identity, id)
	if err != nil {
		handleError(c, err)
		return
	}

	data := gin.H{
		"Title":   review.BookTitle,
		"Review":  review,
		"Likes":   likes,
		"Liked":   liked,
		"IsOwner": services.AuthorizeOwner(identity, review.UserID) == nil,

		"CommentText":  "",
		"CommentError": "",
	}
	for k, v := range extra {
		data[k] = v
	}
	render(c, status, "review.html", data)
}

func (h *ReviewHandler) EditPage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.EditableReview(middleware.CurrentIdentity(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, services.FromReview(review), nil, true, review.ID)
}

func (h *ReviewHandler) Edit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in services.ReviewInput
	if err := c.ShouldBind(&in); err != nil {
		in.Rating = 0
	}

	review, err := h.reviewService.UpdateReview(middleware.CurrentIdentity(c), id, in)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, in, fields, true, id)
			return
		}
		handleError(c, err)
		return
	}

	middleware.AddFlash(c, "Review updated.", middleware.FlashSuccess)
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/review/%d", review.ID))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(middleware.CurrentIdentity(c), id); err != nil {
		handleError(c, err)
		return
	}

	middleware.AddFlash(c, "Review deleted.", middleware.FlashSuccess)
	c.Redirect(http.StatusSeeOther, "/profile")
}

func (h *ReviewHandler) Like(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.reviewService.ToggleLike(middleware.CurrentIdentity(c), id); err != nil {
		handleError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/review/%d", id))
}

func (h *ReviewHandler) renderForm(c *gin.Context, status int, form services.ReviewInput, errs map[string]string, editing bool, id uint) {
	if errs == nil {
		errs = map[string]string{}
	}
	title, action := "Add a review", "/add"
	if editing {
		title, action = "Edit review", fmt.Sprintf("/review/%d/edit", id)
	}
	render(c, status, "review_form.html", gin.H{
		"Title":    title,
		"Action":   action,
		"Form":     form,
		"Errors":   errs,
		"Editing":  editing,
		"Statuses": models.ReviewStatuses,
	})
}

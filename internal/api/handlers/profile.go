package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/bookmind/internal/api/middleware"
	"github.com/princeprakhar/bookmind/internal/models"
	"github.com/princeprakhar/bookmind/internal/services"
)

const profileCommentLimit = 10

type ProfileHandler struct {
	authService    *services.AuthService
	reviewService  *services.ReviewService
	commentService *services.CommentService
}

func NewProfileHandler(authService *services.AuthService, reviewService *services.ReviewService,
	commentService *services.CommentService) *ProfileHandler {
	return &ProfileHandler{
		authService:    authService,
		reviewService:  reviewService,
		commentService: commentService,
	}
}

// Profile shows the caller's own page.
func (h *ProfileHandler) Profile(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity.IsAnonymous() {
		handleError(c, services.ErrUnauthorized)
		return
	}
	h.renderProfile(c, http.StatusOK, identity.User, nil)
}

func (h *ProfileHandler) UserProfile(c *gin.Context) {
	user, err := h.authService.GetUserByUsername(c.Param("username"))
	if err != nil {
		handleError(c, err)
		return
	}
	h.renderProfile(c, http.StatusOK, user, nil)
}

func (h *ProfileHandler) renderProfile(c *gin.Context, status int, user *models.User, passwordErrors map[string]string) {
	reviews, err := h.reviewService.ListUserReviews(user.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	comments, err := h.commentService.ListUserComments(user.ID, profileCommentLimit)
	if err != nil {
		handleError(c, err)
		return
	}

	if passwordErrors == nil {
		passwordErrors = map[string]string{}
	}
	render(c, status, "profile.html", gin.H{
		"Title":          user.Username,
		"ProfileUser":    user,
		"Reviews":        reviews,
		"Comments":       comments,
		"IsSelf":         middleware.CurrentIdentity(c).UserID() == user.ID,
		"PasswordErrors": passwordErrors,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/bookmind/internal/api/middleware"
	"github.com/princeprakhar/bookmind/internal/services"
	"github.com/princeprakhar/bookmind/pkg/logger"
)

// ChangePassword handles the form on the caller's profile page.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var req services.ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		renderError(c, http.StatusBadRequest, "Invalid request data.")
		return
	}

	if err := h.authService.ChangePassword(identity, req); err != nil {
		if fields, ok := validationFields(err); ok {
			h.renderProfile(c, http.StatusUnprocessableEntity, identity.User, fields)
			return
		}
		handleError(c, err)
		return
	}

	logger.WithField("user_id", identity.UserID()).Info("password changed")
	middleware.AddFlash(c, "Password changed.", middleware.FlashSuccess)
	c.Redirect(http.StatusSeeOther, "/profile")
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/bookmind/internal/api/middleware"
	"github.com/princeprakhar/bookmind/internal/services"
	"github.com/princeprakhar/bookmind/pkg/logger"
)

// render executes a page with the layout data every template expects.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if identity := middleware.CurrentIdentity(c); !identity.IsAnonymous() {
		data["CurrentUser"] = identity.User
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	data["Flashes"] = middleware.PopFlashes(c)
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

func NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "Page not found.")
}

// handleError turns a service error into the page the user sees. Anonymous
// page views are sent to the login form; anonymous mutations get a 401.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		renderError(c, http.StatusNotFound, "Review not found.")
	case errors.Is(err, services.ErrCommentNotFound):
		renderError(c, http.StatusNotFound, "Comment not found.")
	case errors.Is(err, services.ErrUserNotFound):
		renderError(c, http.StatusNotFound, "User not found.")
	case errors.Is(err, services.ErrUnauthorized):
		if c.Request.Method == http.MethodGet {
			middleware.AddFlash(c, "Please log in to continue.", middleware.FlashWarning)
			c.Redirect(http.StatusFound, "/login")
			return
		}
		renderError(c, http.StatusUnauthorized, "You need to log in to do that.")
	case errors.Is(err, services.ErrForbidden):
		renderError(c, http.StatusForbidden, "You can only change your own content.")
	default:
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.Error(err)
		renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// validationFields extracts per-field messages from a validation failure.
func validationFields(err error) (map[string]string, bool) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

// pathID parses a numeric route parameter. Anything that is not a positive
// id cannot name a resource and is rendered as not found.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		renderError(c, http.StatusNotFound, "Page not found.")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}

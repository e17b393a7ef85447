package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/bookmind/internal/api/middleware"
	"github.com/princeprakhar/bookmind/internal/config"
	"github.com/princeprakhar/bookmind/internal/services"
	"github.com/princeprakhar/bookmind/pkg/logger"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{
		"Title": "Register",
		"Form":  services.RegisterRequest{},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		render(c, http.StatusBadRequest, "register.html", gin.H{
			"Title": "Register",
			"Form":  req,
			"Error": "Invalid request data.",
		})
		return
	}

	_, err := h.authService.Register(req)
	if err != nil {
		data := gin.H{"Title": "Register", "Form": req}
		if fields, ok := validationFields(err); ok {
			data["Errors"] = fields
			render(c, http.StatusUnprocessableEntity, "register.html", data)
			return
		}
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			data["Error"] = "That username is already taken."
			render(c, http.StatusConflict, "register.html", data)
			return
		case errors.Is(err, services.ErrEmailTaken):
			data["Error"] = "That email is already registered."
			render(c, http.StatusConflict, "register.html", data)
			return
		}
		handleError(c, err)
		return
	}

	middleware.AddFlash(c, "Registration successful. You can now log in.", middleware.FlashSuccess)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Form":  services.LoginRequest{},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.AddFlash(c, "Invalid request data.", middleware.FlashError)
		render(c, http.StatusBadRequest, "login.html", gin.H{"Title": "Log in", "Form": req})
		return
	}

	result, err := h.authService.Login(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logger.WithField("username", req.Username).Info("failed login attempt")
			middleware.AddFlash(c, "Invalid username or password.", middleware.FlashError)
			render(c, http.StatusUnauthorized, "login.html", gin.H{
				"Title": "Log in",
				"Form":  services.LoginRequest{Username: req.Username},
			})
			return
		}
		handleError(c, err)
		return
	}

	h.setAccessToken(c, result.Token, int(h.cfg.AccessTokenTTL.Seconds()))
	middleware.AddFlash(c, fmt.Sprintf("Welcome back, %s!", result.User.Username), middleware.FlashSuccess)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setAccessToken(c, "", -1)
	middleware.AddFlash(c, "You have been logged out.", middleware.FlashInfo)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) setAccessToken(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, token, maxAge, "/", "", h.cfg.IsProduction(), true)
}

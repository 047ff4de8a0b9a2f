package api

import (
	"alcyxob/fitness-admin/internal/service"
	"alcyxob/fitness-admin/internal/session"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves login, registration and logout.
type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

// --- Request/Response Structs ---

type credentialsForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// --- Handler Methods ---

func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", "Sign in", credentialsForm{}, "")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.html", "Sign in", form, "Invalid form submission.")
		return
	}
	password := form.Password
	form.Password = ""

	token, sess, err := h.authService.Login(c.Request.Context(), form.Email, password)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, service.ErrAuthenticationFailed) && !errors.Is(err, service.ErrValidationFailed) {
			status = http.StatusInternalServerError
		}
		render(c, status, "login.html", "Sign in", form, err.Error())
		return
	}

	h.setSessionCookie(c, token, time.Until(sess.ExpiresAt))
	redirect(c, "/")
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register.html", "Create account", credentialsForm{}, "")
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "register.html", "Create account", form, "Invalid form submission.")
		return
	}
	password := form.Password
	form.Password = ""

	_, profile, err := h.authService.Register(c.Request.Context(), form.Email, password)
	if err != nil {
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			status = http.StatusConflict
		case !errors.Is(err, service.ErrValidationFailed):
			status = http.StatusInternalServerError
		}
		render(c, status, "register.html", "Create account", form, err.Error())
		return
	}

	notice := "Account created. Sign in to continue."
	if !profile.CanAdminister() {
		notice = "Account created. An administrator must grant you access before you can use the console."
	}
	redirect(c, "/login?notice="+url.QueryEscape(notice))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), session.TokenFromRequest(c.Request)); err != nil {
		// The cookie is cleared regardless; a failed revocation only matters for stolen copies.
		slog.ErrorContext(c.Request.Context(), "revoke session failed", "error", err)
	}
	h.setSessionCookie(c, "", -1)
	redirect(c, "/login")
}

// APILogin issues a bearer token for scripted access to the console API.
func (h *AuthHandler) APILogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, sess, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: sess.ExpiresAt})
}

// Me reports the identity behind the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	profile := profileFromContext(c)
	sess := sessionFromContext(c)
	if profile == nil || sess == nil {
		abortWithError(c, http.StatusInternalServerError, "Session not found in context")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":    sess.UserID.Hex(),
		"role":      profile.Role,
		"expiresAt": sess.ExpiresAt,
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, maxAge, "/", "", h.secureCookies, true)
}

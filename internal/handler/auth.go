package handler

import (
	"net/http"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/auth"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/middleware"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/service"

	"github.com/gin-gonic/gin"
)

// CookieSettings controls the session cookies written by AuthHandler.
type CookieSettings struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	svc     service.AuthService
	cookies CookieSettings
}

func NewAuthHandler(svc service.AuthService, cookies CookieSettings) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies}
}

// SignIn godoc
// @Summary Sign in with email and password
// @Description Sets the AccessToken and RefreshToken cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.SignInRequest true "Credentials"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/v1/auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tokens, err := h.svc.SignIn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSession(c, tokens)
	c.JSON(http.StatusOK, tokens.User)
}

// Refresh godoc
// @Summary Rotate the refresh token
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Router /api/v1/auth/refresh-token [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(auth.RefreshCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, apierror.New("refresh token is missing"))
		return
	}
	tokens, err := h.svc.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSession(c, tokens)
	c.JSON(http.StatusOK, tokens.User)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if claims := middleware.GetClaims(c); claims != nil {
		if err := h.svc.SignOut(c.Request.Context(), claims.UserID); err != nil {
			respondError(c, err)
			return
		}
	}
	h.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"detail": "signed out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("access token is missing"))
		return
	}
	resp, err := h.svc.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) setSession(c *gin.Context, tokens *dto.SessionTokens) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.AccessCookie, tokens.AccessToken, int(h.cookies.AccessTTL.Seconds()), "/", "", h.cookies.Secure, true)
	c.SetCookie(auth.RefreshCookie, tokens.RefreshToken, int(h.cookies.RefreshTTL.Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *AuthHandler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.AccessCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(auth.RefreshCookie, "", -1, "/", "", h.cookies.Secure, true)
}

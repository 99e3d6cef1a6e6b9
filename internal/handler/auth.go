package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/photoshare/backend/internal/model"
	"github.com/photoshare/backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary Register a new user
// @Description Disabled when ALLOW_SIGNUP is false.
// @Tags user
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Credential and profile fields"
// @Success 201 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /user [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.NewUserResponse(user))
}

// UpdateUser godoc
// @Summary Update a user's profile
// @Description The user themself or an admin. Names in tokens issued earlier change on the next login.
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body model.UpdateUserRequest true "Profile fields"
// @Success 200 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /user/{id} [patch]
func (h *AuthHandler) UpdateUser(c *gin.Context, auth *model.AuthContext) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), auth, userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewUserResponse(user))
}

// Login godoc
// @Summary Login
// @Description Returns the session token and also sets it as the auth_token cookie.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "login_name and password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), req.LoginName, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, model.LoginResponse{
		ID:        user.ID,
		LoginName: user.LoginName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   user.IsAdmin,
		Token:     token,
	})
}

// Logout godoc
// @Summary Logout
// @Description Clears the session cookies. Tokens are stateless, so nothing is revoked server-side.
// @Tags admin
// @Produce json
// @Success 200 {object} model.MessageResponse
// @Router /admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Logged out successfully"})
}

// Session godoc
// @Summary Get current session
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SessionResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /admin/session [get]
func (h *AuthHandler) Session(c *gin.Context, auth *model.AuthContext) {
	c.JSON(http.StatusOK, model.SessionResponse{
		ID:        auth.ID,
		LoginName: auth.LoginName,
		FirstName: auth.FirstName,
		LastName:  auth.LastName,
		IsAdmin:   auth.IsAdmin,
		Exp:       auth.ExpiresAt.Unix(),
	})
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, token, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(service.LegacyCookieName, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}

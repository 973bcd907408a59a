package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/letmerecall/server/internal/application"
	"github.com/letmerecall/server/internal/interface/middleware"
	"github.com/letmerecall/server/pkg/helpers"
	"github.com/letmerecall/server/pkg/response"
	"github.com/letmerecall/server/pkg/validation"
)

type UserHandler struct {
	Svc     *userapp.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *userapp.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type signupRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Signup POST /api/v1/auth/user/signup
func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation error", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userapp.ErrUserExists) {
			response.Error(c, http.StatusBadRequest, "user already exists", nil)
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"username": u.Username}, u.Username+" successfully signed up")
}

// Signin POST /api/v1/auth/user/signin
// Sets the identity cookie on success. An unknown email answers 400 and a
// wrong password 401, mirroring the original behavior (noted information
// leak, kept as-is).
func (h *UserHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation error", validation.ToDetails(err))
		return
	}

	u, token, exp, err := h.Svc.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error(c, http.StatusBadRequest, "user not found", nil)
		case errors.Is(err, userapp.ErrWrongPassword):
			response.Error(c, http.StatusUnauthorized, "incorrect password", nil)
		default:
			h.Logger.WithError(err).Error("signin failed")
			response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		}
		return
	}

	h.Cookies.SetToken(c, token, exp)
	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{"id": u.ID, "email": u.Email},
	}, "user logged in successfully")
}

// Logout POST /api/v1/auth/user/logout
func (h *UserHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "user logged out successfully")
}

// Me GET /api/v1/auth/user/me (auth required)
func (h *UserHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"username":    u.Username,
		"email":       u.Email,
		"userAddedAt": u.CreatedAt,
	}, "profile")
}

// Session GET /api/v1/auth/user/session
// Always 200; reports isAuthenticated plus the user when the token resolves.
func (h *UserHandler) Session(c *gin.Context) {
	token := middleware.TokenFromRequest(c)
	u := h.Svc.SessionUser(c.Request.Context(), token)
	if u == nil {
		response.Success(c, http.StatusOK, gin.H{"isAuthenticated": false, "user": nil}, "session")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"isAuthenticated": true,
		"user": gin.H{
			"id":             u.ID,
			"email":          u.Email,
			"username":       u.Username,
			"isMailVerified": u.IsMailVerified,
			"provider":       u.Provider,
		},
	}, "session")
}

// Data GET /api/v1/auth/user/data
// TODO: decide on access control; this endpoint is open like the original,
// which exposed the full user listing without any authorization check.
func (h *UserHandler) Data(c *gin.Context) {
	users, err := h.Svc.AllUsers(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":          u.ID,
			"username":    u.Username,
			"email":       u.Email,
			"userAddedAt": u.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, out, "users")
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	userapp "github.com/letmerecall/server/internal/application"
	"github.com/letmerecall/server/pkg/helpers"
	"github.com/letmerecall/server/pkg/oauth"
	"github.com/letmerecall/server/pkg/response"
)

// OAuthHandler drives the provider redirect flow. The CSRF state lives in
// Redis with a short TTL and is consumed exactly once by the callback.
type OAuthHandler struct {
	Providers   map[string]oauth.Provider
	Linker      *userapp.OAuthService
	Users       *userapp.UserService
	States      *helpers.OAuthStateStore
	Logger      *logrus.Logger
	Cookies     *helpers.Manager
	FrontendURL string
}

func NewOAuthHandler(providers map[string]oauth.Provider, linker *userapp.OAuthService, users *userapp.UserService,
	states *helpers.OAuthStateStore, logger *logrus.Logger, cookieDomain string, cookieSecure bool, frontendURL string) *OAuthHandler {
	return &OAuthHandler{
		Providers:   providers,
		Linker:      linker,
		Users:       users,
		States:      states,
		Logger:      logger,
		Cookies:     helpers.NewCookie(cookieDomain, cookieSecure),
		FrontendURL: frontendURL,
	}
}

const failurePath = "/auth/failure"

// Begin GET /auth/:provider
func (h *OAuthHandler) Begin(c *gin.Context) {
	p, ok := h.Providers[c.Param("provider")]
	if !ok {
		response.Error(c, http.StatusNotFound, "unknown provider", nil)
		return
	}

	state := uuid.NewString()
	if err := h.States.Put(c.Request.Context(), state, p.Name()); err != nil {
		h.Logger.WithError(err).Error("store oauth state failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}

	c.Redirect(http.StatusFound, p.AuthURL(state))
}

// Callback GET /auth/:provider/callback
// Verifies state, exchanges the code, links or creates the account and
// issues the identity cookie before redirecting back to the frontend.
func (h *OAuthHandler) Callback(c *gin.Context) {
	p, ok := h.Providers[c.Param("provider")]
	if !ok {
		response.Error(c, http.StatusNotFound, "unknown provider", nil)
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.Redirect(http.StatusFound, failurePath)
		return
	}

	provider, found, err := h.States.Consume(c.Request.Context(), state)
	if err != nil {
		h.Logger.WithError(err).Error("consume oauth state failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}
	if !found || provider != p.Name() {
		c.Redirect(http.StatusFound, failurePath)
		return
	}

	profile, err := p.Exchange(c.Request.Context(), code)
	if err != nil {
		if !errors.Is(err, oauth.ErrNoEmail) {
			h.Logger.WithError(err).WithField("provider", p.Name()).Warn("oauth exchange failed")
		}
		c.Redirect(http.StatusFound, failurePath)
		return
	}

	u, err := h.Linker.LinkOrCreate(c.Request.Context(), profile)
	if err != nil {
		h.Logger.WithError(err).WithField("provider", p.Name()).Error("link oauth account failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}

	token, exp, err := h.Users.IssueToken(u)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}

	h.Cookies.SetToken(c, token, exp)
	c.Redirect(http.StatusFound, h.FrontendURL)
}

// Failure GET /auth/failure
func (h *OAuthHandler) Failure(c *gin.Context) {
	response.Error(c, http.StatusUnauthorized, "failed to authenticate", nil)
}

// Logout GET /auth/logout
func (h *OAuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	c.Redirect(http.StatusFound, h.FrontendURL)
}

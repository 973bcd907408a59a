package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/letmerecall/server/internal/interface/http"
)

// OAuthModule wires the provider redirect flow. These routes sit at the
// engine root (/auth/...) because provider callback URLs are registered
// without the /api/v1 prefix.
type OAuthModule struct {
	Handler *handlers.OAuthHandler
}

func NewOAuthModule(h *handlers.OAuthHandler) *OAuthModule {
	return &OAuthModule{Handler: h}
}

func (m *OAuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")

	g.GET("/failure", m.Handler.Failure)
	g.GET("/logout", m.Handler.Logout)
	g.GET("/:provider", m.Handler.Begin)
	g.GET("/:provider/callback", m.Handler.Callback)
}

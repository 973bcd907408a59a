package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/letmerecall/server/internal/interface/http"
	"github.com/letmerecall/server/internal/interface/middleware"
	"github.com/letmerecall/server/pkg/helpers"
)

// UserModule wires user auth routes under /auth/user.
// Public: signup, signin, logout, session, data (data is deliberately open,
// matching observed behavior — see the handler).
// Protected: me.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth/user")

	g.POST("/signup", m.Handler.Signup)
	g.POST("/signin", m.Handler.Signin)
	g.POST("/logout", m.Handler.Logout)
	g.GET("/session", m.Handler.Session)
	g.GET("/data", m.Handler.Data)

	auth := g.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/me", m.Handler.Me)
	}
}

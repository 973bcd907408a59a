package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/letmerecall/server/internal/interface/http"
	"github.com/letmerecall/server/internal/interface/middleware"
	"github.com/letmerecall/server/pkg/helpers"
)

// ContentModule wires content routes under /content. Everything requires auth.
type ContentModule struct {
	Handler *handlers.ContentHandler
	JWT     *helpers.JWTManager
}

func NewContentModule(h *handlers.ContentHandler, jwt *helpers.JWTManager) *ContentModule {
	return &ContentModule{Handler: h, JWT: jwt}
}

func (m *ContentModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/content")
	g.Use(middleware.Auth(m.JWT))
	{
		g.POST("", m.Handler.Create)
		g.GET("", m.Handler.List)
		g.GET("/search", m.Handler.Search)
		g.POST("/images", m.Handler.UploadImage)
		g.GET("/:id", m.Handler.GetOne)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
	}
}

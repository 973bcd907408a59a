package router

import (
	"github.com/letmerecall/server/internal/application"
	"github.com/letmerecall/server/internal/container"
	pginfra "github.com/letmerecall/server/internal/infrastructure/postgres"
	handlers "github.com/letmerecall/server/internal/interface/http"
	"github.com/letmerecall/server/internal/router/modules"
	"github.com/letmerecall/server/pkg/helpers"
)

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup after the container is filled.
func InitModules(reg *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	contentRepo := pginfra.NewContentRepository(container.GetPGPool())

	userSvc := application.NewUserService(userRepo, container.GetJWT(), container.GetRabbitPub(), logger)
	contentSvc := application.NewContentService(contentRepo, logger, container.GetES(), cfg.ESContentIndex)
	oauthSvc := application.NewOAuthService(userRepo, logger)

	userHandler := handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	contentHandler := handlers.NewContentHandler(contentSvc, logger, container.GetGCS(), cfg.GCSBucket)

	reg.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	reg.Add(modules.NewContentModule(contentHandler, container.GetJWT()))

	// OAuth routes live at the engine root, outside the /api/v1 group
	if providers := container.GetOAuthProviders(); len(providers) > 0 {
		states := helpers.NewOAuthStateStore(container.GetRedis(), cfg.OAuthStateTTL)
		oauthHandler := handlers.NewOAuthHandler(providers, oauthSvc, userSvc, states, logger,
			cfg.CookieDomain, cfg.CookieSecure, cfg.FrontendURL)
		modules.NewOAuthModule(oauthHandler).Register(reg.Engine.Group("/"))
	}
}

package http

import (
	"github.com/anexlab/gatekeeper/internal/config"
	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/service"
)

type Handler struct {
	services *service.Services

	// accessToken is the pre-shared token gating mutating endpoints.
	accessToken string

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:    services,
		accessToken: cfg.AccessToken,
		logger:      logger,
	}
}

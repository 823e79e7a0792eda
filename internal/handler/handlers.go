package handler

import (
	"github.com/anexlab/gatekeeper/internal/config"
	"github.com/anexlab/gatekeeper/internal/handler/http"
	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handlers {
	logger.Info().Msg("creating new handlers...")

	return &Handlers{
		HTTP: http.NewHandler(services, cfg.App, logger),
	}
}

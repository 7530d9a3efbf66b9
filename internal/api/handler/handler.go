package handler

import (
	"log/slog"

	"github.com/guildworks/marketboard/internal/api/auth"
	"github.com/guildworks/marketboard/internal/api/service"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger *slog.Logger
	Market *service.Market
	Tokens *auth.Manager
}

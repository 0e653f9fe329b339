// Package domain contains domain layer modules
package domain

import (
	"go.uber.org/fx"

	"github.com/clipgrab/clipgrab-bot/internal/domain/bot"
)

// Module provides all domain components for fx dependency injection
var Module = fx.Module("domain",
	bot.Module,
)

package main

import (
	"go.uber.org/fx"

	"github.com/clipgrab/clipgrab-bot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}

package main

import (
	"context"

	"github.com/tasknest/tasknest/internal/bootstrap"
	"github.com/tasknest/tasknest/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "failed to initialize application: "+err.Error())
		panic(err)
	}

	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "application failed: "+err.Error())
		panic(err)
	}
}

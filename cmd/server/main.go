package main

import (
	"storefront-media/internal/app"
	"storefront-media/internal/config"

	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	_ = godotenv.Load()

	zlog.Init()

	cfg, err := config.MustLoad()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to load config")
	}

	application, err := app.NewApp(cfg, &zlog.Logger)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to create app")
	}

	if err := application.Run(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Server failed")
	}
}

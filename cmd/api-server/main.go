package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"measurement-api-server/cmd/api-server/app"
	"measurement-api-server/cmd/api-server/app/options"
	_ "measurement-api-server/docs"
	log "measurement-api-server/internal/logger"
)

func main() {
	// .env is optional, environment wins either way
	_ = godotenv.Load()

	option, err := options.NewOptions()
	if err != nil {
		fmt.Print(option.Usage(err))
		os.Exit(1)
	}

	logger, err := log.SetupLogger(*option.LogFile, *option.Mode)
	if err != nil {
		os.Exit(1)
	}

	if err := app.Run(option, logger); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"finbudget/internal/server"
	"finbudget/internal/server/config"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}

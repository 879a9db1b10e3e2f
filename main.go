package main

//go:generate swag init

import (
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/satheeshds/condo/cmd"
)

// @title           Condo Billing API
// @version         1.0.0
// @description     Invoices, checkout and payment reconciliation for residential buildings.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cmd.Execute()
}

package main

import (
	"net/http"
	"os"
	"time"

	"med-tracker/internal/platform/logger"
	"med-tracker/internal/router"
)

// @title Med Tracker API
// @version 1.0
// @description Registro de medicamentos y dosis con resumen diario por zona horaria del viewer.
// @BasePath /api/v1
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{Logger: log})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

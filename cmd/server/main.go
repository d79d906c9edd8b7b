package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sanctum-collective/sanctum/internal/app/runtime"
)

func main() {
	// .env is optional; environment variables win either way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := runtime.NewApplication()
	if err != nil {
		log.Fatalf("initialise application: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		log.Fatalf("run application: %v", err)
	}

	if err := application.Shutdown(context.Background()); err != nil {
		log.Fatalf("shutdown application: %v", err)
	}
}

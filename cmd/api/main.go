package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/greenur/plantbasics/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, app.Options{ServiceName: "plantbasics-api", WithDB: true})
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	server, err := application.NewServer()
	if err != nil {
		application.Log.Error("init server failed", "error", err)
		return
	}
	addr := ":" + application.Cfg.Port
	application.Log.Info("plant API listening", "addr", addr)
	if err := server.Run(ctx, addr); err != nil {
		application.Log.Error("server stopped", "error", err)
	}
}

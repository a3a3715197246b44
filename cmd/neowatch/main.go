package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"neowatch/cmd/neowatch/commands"
	"neowatch/internal/config"
	"neowatch/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Загрузка .env, его отсутствие не ошибка
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := commands.NewRootCmd(cfg).ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

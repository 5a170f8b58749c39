package main

import (
	"context"
	"fmt"
	"os"

	"calsheets/internal/cli"
	"calsheets/internal/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := cli.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := cli.WithShutdown(context.Background(), logger.Logger)
	defer stop()

	app := cli.NewApp(cfg, logger)
	if err := cli.NewRootCmd(app).ExecuteContext(ctx); err != nil {
		logger.Error("Command failed", log.FieldError, err)
		return err
	}
	return nil
}

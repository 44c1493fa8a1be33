package main

import (
	"context"
	"os"
	"os/signal"

	"atelier/cmd/atelier/serve"
	"atelier/cmd/atelier/users"
	"atelier/internal/logutil"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// a .env in the working directory feeds the ATELIER_* flag defaults
	godotenv.Load()
	app := &cli.App{
		Name:  "atelier",
		Usage: "Manage the content of your personal website",
		Commands: []*cli.Command{
			serve.Cmd(),
			users.Cmd(),
		},
	}
	log := logutil.Console()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(logutil.WithLogger(ctx, log), os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}

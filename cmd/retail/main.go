package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"retail-transfers/app/client"
	"retail-transfers/app/config"
	"retail-transfers/app/terminal"

	"go.uber.org/zap"
)

func main() {
	verbose := flag.Bool("v", false, "log API calls to stderr")
	dir := flag.String("out", ".", "directory for exported reports")
	flag.Parse()

	cfg := config.LoadClient()

	log := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		log = l
	}
	defer log.Sync()

	api := client.New(cfg.BaseURL,
		client.WithTokenStore(client.FileTokenStore{Path: cfg.TokenFile}),
		client.WithLogger(log),
		client.OnUnauthorized(func() {
			fmt.Fprintln(os.Stderr, "Session expired, please log in again.")
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ui := terminal.NewUI(api, bufio.NewReader(os.Stdin), os.Stdout,
		terminal.WithLogger(log),
		terminal.WithDownloadDir(*dir),
	)
	ui.Run(ctx)
}

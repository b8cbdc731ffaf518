/*
Package main is the entry point for the rugamia notification relay.

It is responsible for loading configuration, initializing the global logging
system, wiring the credential store, tracker gateway, session table, chat
client, and relay listener together, and gracefully handling operating system
interrupt signals (SIGINT, SIGTERM) to ensure a clean shutdown.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/louiz/rugamia/internal/app/chat"
	"github.com/louiz/rugamia/internal/app/credentials"
	"github.com/louiz/rugamia/internal/app/relay"
	"github.com/louiz/rugamia/internal/app/session"
	"github.com/louiz/rugamia/internal/app/tracker"
	"github.com/louiz/rugamia/internal/configs"
	"github.com/louiz/rugamia/internal/handler"
	"github.com/louiz/rugamia/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Str("chat_url", cfg.ChatURL).
		Str("nick", cfg.Nick).
		Strs("rooms", cfg.Rooms).
		Str("tracker_url", cfg.TrackerURL).
		Str("tracker_format", cfg.TrackerFormat).
		Str("relay_socket", cfg.RelaySocket).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	format, err := tracker.ParseFormat(cfg.TrackerFormat)
	if err != nil {
		logx.Fatal(err, "Invalid tracker format")
	}

	store, err := credentials.NewStore(cfg.CredentialsFile)
	if err != nil {
		logx.Fatal(err, "Failed to load credential store")
	}

	gateway := tracker.NewGateway(cfg.TrackerURL, format, store)

	table := session.NewTable(cfg.Rooms, cfg.Nick)
	table.BindHandler(handler.NewMessageHandler(handler.AppDeps{
		Session:     table,
		Tracker:     gateway,
		Credentials: store,
	}))

	client := chat.NewClient(cfg.ChatURL, cfg.ChatIdentity, cfg.Nick, table)
	table.BindFacade(client)

	listener := relay.NewListener(cfg.RelaySocket, table)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		table.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := listener.Run(ctx); err != nil {
			logx.Fatal(err, "Relay listener failed")
		}
	}()

	if err := client.Start(ctx); err != nil {
		logx.Fatal(err, "Failed to connect to the chat service")
	}

	// Wait for the interrupt signal, then let the components unwind.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	client.Close()
	wg.Wait()

	logx.Info("Relay gracefully stopped.")
}

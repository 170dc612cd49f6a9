package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/pulsefit/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "PulseFit server URL (e.g. https://pulsefit.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("PULSEFIT_API_KEY"), "API key sent as X-API-Key")
	user := flag.String("user", "", "default user UUID for tool calls")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("pulsefit-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: pulsefit-mcp -server <URL> [-api-key KEY] [-user UUID]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var defaultUser uuid.UUID
	if *user != "" {
		id, err := uuid.Parse(*user)
		if err != nil {
			log.Error("invalid -user", "error", err)
			os.Exit(1)
		}
		defaultUser = id
	}

	client := mcp.NewHTTPClient(strings.TrimRight(*serverURL, "/"), *apiKey)
	s := mcp.New(client, Version, log)

	log.Info("pulsefit-mcp serving stdio", "server", *serverURL)
	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		if defaultUser != uuid.Nil {
			return mcp.WithUserID(ctx, defaultUser)
		}
		return ctx
	}))
	if err != nil {
		log.Error("stdio server failed", "error", err)
		os.Exit(1)
	}
}

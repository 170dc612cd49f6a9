package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "PulseFit server URL (e.g. https://pulsefit.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("PULSEFIT_API_KEY"), "API key sent as X-API-Key")
	dir := flag.String("path", "", "directory containing .fit activity files")
	user := flag.String("user", "", "user UUID the workouts belong to")
	dryRun := flag.Bool("dry-run", false, "parse and convert but don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("pulsefit-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dir == "" || *user == "" {
		fmt.Fprintf(os.Stderr, "Usage: pulsefit-upload -server <URL> -user <UUID> -path <dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *serverURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
		os.Exit(1)
	}

	userID, err := uuid.Parse(*user)
	if err != nil {
		log.Error("invalid -user", "error", err)
		os.Exit(1)
	}

	if info, err := os.Stat(*dir); err != nil || !info.IsDir() {
		log.Error("directory not found", "path", *dir)
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	state, err := upload.OpenStateDB(filepath.Join(homeDir, ".pulsefit-upload"))
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Client is nil in dry-run mode
	var client *upload.Client
	if !*dryRun {
		client = upload.NewClient(strings.TrimRight(*serverURL, "/"), *apiKey)
	} else {
		log.Info("DRY RUN mode: files will be parsed and converted but not sent")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := upload.New(client, state, *dir, userID, *dryRun, log).Run(ctx)
	printStats(stats)
	if err != nil {
		log.Error("upload failed", "error", err)
		os.Exit(1)
	}
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Files without HR: %d\n", stats.FilesEmpty)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Samples sent:     %d\n", stats.SamplesSent)
	fmt.Printf("  Burn points:      %d\n", stats.BurnPoints)
	fmt.Printf("  XP earned:        %d\n", stats.XPEarned)
	fmt.Println()
}

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meltforce/liftlog/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "LiftLog server URL (required)")
	token := flag.String("token", "", "access token (required)")
	exportPath := flag.String("path", "", "path to export directory (required)")
	dryRun := flag.Bool("dry-run", false, "report what would be imported without calling the server")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" || *token == "" || *exportPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import -server https://liftlog.example -token <access token> -path /path/to/exports [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*exportPath)
	if err != nil || !info.IsDir() {
		log.Error("export path does not exist or is not a directory", "path", *exportPath)
		os.Exit(1)
	}

	// Import state lives next to the user's home so reruns skip done files.
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("cannot determine home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".liftlog-import")
	state, err := upload.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "dir", stateDir, "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *dryRun {
		log.Info("DRY RUN mode — nothing will be sent to the server")
	}

	client := upload.NewClient(*serverURL, *token)
	imp := upload.New(client, state, *exportPath, *dryRun, log)
	stats, err := imp.Run()
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("import complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("  Files total:       %d\n", stats.FilesTotal)
	fmt.Printf("  Files imported:    %d\n", stats.FilesImported)
	fmt.Printf("  Files skipped:     %d (already imported)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:     %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Exercises created: %d\n", stats.ExercisesCreated)
	fmt.Printf("  Workouts created:  %d\n", stats.WorkoutsCreated)
	fmt.Printf("  Sessions created:  %d\n", stats.SessionsCreated)
	fmt.Println()
}

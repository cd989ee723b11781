package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/kirillkom/plagiarism-report/internal/config"
	"github.com/kirillkom/plagiarism-report/internal/tui"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	apiURL := flag.String("url", envOr("PLAGCHECK_API_URL", "http://localhost:"+cfg.APIPort), "API base URL")
	poll := flag.Duration("poll", 250*time.Millisecond, "progress polling interval")
	flag.Parse()

	profile, err := config.ResolveAnalysisProfile(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis profile: %v\n", err)
		os.Exit(1)
	}

	m := tui.NewModel(tui.NewClient(*apiURL), tui.Options{
		CompletionDelay: profile.CompletionDelay,
		PollInterval:    *poll,
	})
	program := tea.NewProgram(m)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mhaas/mealie-term/internal/app"
	"github.com/mhaas/mealie-term/internal/credential"
	"github.com/mhaas/mealie-term/internal/logging"
	"github.com/mhaas/mealie-term/internal/model"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	logPath := flag.String("log", model.DefaultLogPath(), "path to the log file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("mealie-term", Version)
		return
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mealie-term: %v\n", err)
		os.Exit(1)
	}

	// Log to a file; stdout belongs to the terminal UI.
	logger, err := logging.NewLogger(*logPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mealie-term: opening log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Missing token is not fatal: the setup screen collects one.
	token, err := credential.Get(credential.TokenKey)
	if err != nil {
		logger.Info("no stored API token, starting setup", zap.Error(err))
		token = ""
	}

	root := app.New(cfg, *configPath, token, logger)
	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("terminal UI exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "mealie-term: %v\n", err)
		os.Exit(1)
	}
}

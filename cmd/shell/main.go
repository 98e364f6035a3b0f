package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"DispoCeSoir/internal/config"
	"DispoCeSoir/internal/seed"
	"DispoCeSoir/internal/shell"
	"DispoCeSoir/internal/workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	// Store debug lines would interleave with command output.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		logger.Error("seed load failed", "err", err)
		os.Exit(1)
	}
	ws := workspace.Factory{Seed: data, Logger: logger}.New(uuid.NewString(), time.Now())

	historyFile := cfg.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), "dispocesoir_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Error("readline init failed", "err", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Println("Bienvenue sur DispoCeSoir ! Tapez 'help' pour la liste des commandes.")

	ctx := context.Background()
	cli := shell.NewCLI(ws, rl, os.Stdout)

	for _, script := range os.Args[1:] {
		if err := cli.ExecuteScript(ctx, script); err != nil {
			fmt.Println("Error:", err)
		}
	}

	for {
		err := cli.Run(ctx)
		if err == nil {
			continue
		}
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Println("Use 'exit' or 'quit' to exit the program.")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		fmt.Println("Error:", err)
	}
}


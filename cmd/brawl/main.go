// brawl is a two-fighter platform brawler for the terminal.
//
// Usage:
//
//	brawl play               - Fight the CPU
//	brawl menu               - Start menu to pick modes interactively
//	brawl serve              - Start SSH server for remote and online play
//	brawl roster             - List the characters and their stats
//	brawl history            - Show recent matches
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.arcade/brawl.db)
//	--config <path>       - Load tuning from a YAML file
//	--difficulty <preset> - CPU difficulty: easy, normal, hard, fixed
//	--log <path>          - Write match logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
	"github.com/vovakirdan/tui-brawl/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brawl",
	Short: "TUI Brawl - A platform fighter in your terminal",
	Long: `TUI Brawl is a two-fighter platform brawler played in the terminal.
Knock your opponent off the stage: the more damage they have taken, the
further they fly. Lose all your stocks and the match is over.

Available commands:
  play     - Fight the CPU directly
  menu     - Interactive menu with character select and history
  serve    - Start SSH server for remote and online play
  roster   - Show the characters and their stats
  history  - View recent matches and character records

Examples:
  brawl play
  brawl play --character ninja --difficulty hard
  brawl menu
  brawl serve --ssh :2222
  brawl history`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		brawl.SetConfigPath(flagConfig)
		brawl.SetDifficultyPreset(flagDifficulty)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/brawl.db", "Path to match history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom brawl config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "CPU difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write match logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(historyCmd)
}

// runtimeConfig sizes the arena to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the history database. Play goes on without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		return nil
	}
	return store
}

// fileLogger returns a logger writing to --log, or one that discards
// everything. The terminal itself belongs to the game.
func fileLogger() (*log.Logger, func()) {
	if flagLogPath == "" {
		return log.New(io.Discard), func() {}
	}

	if err := os.MkdirAll(filepath.Dir(flagLogPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "brawl",
	})
	return logger, func() { f.Close() }
}

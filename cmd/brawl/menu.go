package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
	"github.com/vovakirdan/tui-brawl/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the brawler with an interactive menu",
	Long: `Start the brawler in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode.
After a match you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Match history
  Q            - Quit

Examples:
  brawl menu
  brawl menu --fps 30
  brawl menu --db ./brawl.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	logger, closeLog := fileLogger()
	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsHistory {
			goBack, histErr := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH)
			if histErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", histErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from history
		}

		if menuResult.GameID == "" {
			break
		}

		// Update seed for each game
		cfg.Seed = time.Now().UnixNano()

		skipSelect := menuResult.GameID == brawl.IDDemo
		if err := playLoop(menuResult.GameID, store, cfg, logger, skipSelect); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}

	if store != nil {
		store.Close()
	}
	closeLog()
}

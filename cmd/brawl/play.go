package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-brawl/internal/core"
	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
	"github.com/vovakirdan/tui-brawl/internal/platform/tui"
	"github.com/vovakirdan/tui-brawl/internal/registry"
	"github.com/vovakirdan/tui-brawl/internal/storage"
)

var (
	flagCharacter string
	flagDemo      bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Fight the CPU",
	Long: `Start a match against the CPU.

Without --character a character select screen opens first; pick
"random" to let the game choose.

Controls:
  A/D, Left/Right  - Walk
  W/Up/Space       - Jump
  Z/J              - Light attack
  X/K              - Heavy attack
  C/L              - Special
  P/Esc            - Pause
  R                - Rematch (after the match)
  B                - Back to character select (paused or after the match)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - The CPU starts slow and sharpens over time
  normal - Starts at 30% difficulty, progresses to max
  hard   - Starts at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  brawl play
  brawl play --character tank
  brawl play --character random --difficulty hard
  brawl play --demo
  brawl play --config ./my-brawl.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagCharacter, "character", "", "Fighter: mage, ninja, tank or random")
	playCmd.Flags().BoolVar(&flagDemo, "demo", false, "Watch two CPUs fight")
}

func runPlay(_ *cobra.Command, _ []string) {
	skipSelect := flagDemo
	switch flagCharacter {
	case "":
	case "random":
		skipSelect = true
	default:
		kind, err := brawl.ParseKind(flagCharacter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'brawl roster' to see the characters.")
			os.Exit(1)
		}
		brawl.SetPlayerCharacter(kind)
		skipSelect = true
	}

	gameID := brawl.IDVersusCPU
	if flagDemo {
		gameID = brawl.IDDemo
	}

	store := openStore()
	logger, closeLog := fileLogger()

	err := playLoop(gameID, store, runtimeConfig(), logger, skipSelect)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}
	closeLog()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// playLoop alternates character select and fights until the player quits.
func playLoop(gameID string, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger, skipSelect bool) error {
	for {
		if !skipSelect {
			sel, err := tui.RunCharacterSelect(cfg)
			if err != nil {
				return err
			}
			if !sel.Chosen {
				return nil
			}
			brawl.SetPlayerCharacter(sel.Kind)
		}

		game, err := registry.Create(gameID)
		if err != nil {
			return fmt.Errorf("creating game: %w", err)
		}
		g, ok := game.(*brawl.Game)
		if !ok {
			return fmt.Errorf("game %q is not a brawl game", gameID)
		}

		back, err := tui.Run(g, store, cfg, logger)
		if err != nil || !back || gameID == brawl.IDDemo {
			return err
		}

		// Back to character select with a fresh seed
		skipSelect = false
		cfg.Seed = time.Now().UnixNano()
	}
}

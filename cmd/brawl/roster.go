package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-brawl/internal/games/brawl"
	"github.com/vovakirdan/tui-brawl/internal/registry"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List the characters and game modes",
	Long: `Shows every character with the stats of the loaded tuning, then the
game modes that can be played.

Examples:
  brawl roster
  brawl roster --config ./my-brawl.yaml`,
	Args: cobra.NoArgs,
	Run:  runRoster,
}

func runRoster(_ *cobra.Command, _ []string) {
	cfg, chars, err := brawl.LoadTuning()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (showing defaults)\n", err)
	}

	fmt.Printf("Characters (%d stocks per match):\n", cfg.Match.Stocks)
	fmt.Println()

	fmt.Printf("  %-8s  %-10s  %5s  %6s  %4s  %5s  %5s  %7s\n",
		"Name", "Special", "Speed", "Weight", "Jump", "Light", "Heavy", "Special")
	fmt.Printf("  %-8s  %-10s  %5s  %6s  %4s  %5s  %5s  %7s\n",
		"----", "-------", "-----", "------", "----", "-----", "-----", "-------")

	for _, k := range brawl.Roster {
		d := chars.Get(k)
		fmt.Printf("  %-8s  %-10s  %5.1f  %6.2f  %4.1f  %4.0f%%  %4.0f%%  %6.0f%%\n",
			d.Name, d.Special, d.MaxSpeed, d.Weight, d.JumpVelocity,
			d.LightDamage(), d.HeavyDamage(), d.Move(brawl.MoveSpecial).Damage)
	}

	games := registry.List()
	fmt.Println()
	fmt.Println("Modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'brawl play --character <name>' to fight.")
}

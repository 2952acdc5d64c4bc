package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-brawl/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent matches",
	Long: `Display the most recent matches and the record of every character.

Examples:
  brawl history
  brawl history --limit 25
  brawl history --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of matches to show")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete every recorded match")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearHistory(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Println("Match history cleared.")
		return
	}

	matches, err := store.RecentMatches(flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		return
	}

	fmt.Println("Recent Matches")
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'brawl play' to record the first one!")
		return
	}

	fmt.Printf("  %-16s  %-10s  %-16s  %-8s  %s\n", "Date", "Mode", "Fighters", "Result", "KOs")
	fmt.Printf("  %-16s  %-10s  %-16s  %-8s  %s\n", "----", "----", "--------", "------", "---")

	for _, m := range matches {
		fmt.Printf("  %-16s  %-10s  %-16s  %-8s  %d-%d\n",
			m.CreatedAt.Format("2006-01-02 15:04"),
			m.Mode,
			m.Player+" vs "+m.Opponent,
			resultText(m),
			m.KOs[0], m.KOs[1])
	}

	stats, err := store.CharacterStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("Characters")
	fmt.Println()
	fmt.Printf("  %-8s  %6s  %4s  %4s  %4s  %7s\n", "Name", "Played", "Won", "Lost", "Draw", "Avg Dmg")
	for _, c := range stats {
		fmt.Printf("  %-8s  %6d  %4d  %4d  %4d  %6.1f%%\n",
			c.Character, c.Matches, c.Wins, c.Losses, c.Draws(), c.AvgDamage)
	}
}

// resultText names the winning slot, marking matches that ended early.
func resultText(m storage.MatchRecord) string {
	s := "Draw"
	switch m.Winner {
	case 0:
		s = "P1 wins"
	case 1:
		s = "P2 wins"
	}
	if m.EndReason != "" {
		s += "*"
	}
	return s
}

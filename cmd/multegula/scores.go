package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/multegula/internal/core"
	"github.com/vovakirdan/multegula/internal/games/multegula"
	"github.com/vovakirdan/multegula/internal/registry"
	"github.com/vovakirdan/multegula/internal/storage"
)

var (
	flagScoresPlayer string
	flagScoresMatch  string
	flagScoresAll    bool
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show high scores for a mode",
	Long: `Display the top 10 high scores for the specified mode.
The mode "online" lists recent online matches instead.

Examples:
  multegula scores classic
  multegula scores duel --all
  multegula scores practice --clear
  multegula scores online
  multegula scores online --player ana
  multegula scores online --match match-ABC234-1700000000`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Only list online matches of this player")
	scoresCmd.Flags().StringVar(&flagScoresMatch, "match", "", "Show the seats of a single online match")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "List every recorded score instead of the top 10")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every recorded score of the mode")
}

func runScores(cmd *cobra.Command, args []string) {
	modeID := args[0]

	if modeID != multegula.ModeOnline && !registry.Exists(modeID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'multegula list' to see available modes.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if modeID == multegula.ModeOnline {
		if flagScoresMatch != "" {
			if err := printMatch(store, flagScoresMatch); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		if err := printMatches(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
			os.Exit(1)
		}
		return
	}

	game, err := registry.Create(modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	if flagScoresClear {
		if err := store.ClearScores(modeID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared all scores of %s.\n", game.Title())
		return
	}

	var scores []storage.ScoreEntry
	if flagScoresAll {
		scores, err = store.AllScores(modeID)
	} else {
		scores, err = store.TopScores(modeID, 10)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'multegula play %s' to set the first high score!\n", modeID)
		return
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %s\n", "----", "------", "-----", "----")
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-12s  %-8d  %s\n", i+1, entry.Player, entry.Score, dateStr)
	}

	fmt.Println()
	if highScore, err := store.HighScore(modeID); err == nil {
		fmt.Printf("Best: %d\n", highScore)
	}
}

func printMatch(store *storage.Store, matchID string) error {
	r, err := store.OnlineMatchByID(matchID)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("no online match %q", matchID)
	}

	fmt.Printf("Match %s (%s)\n", r.MatchID, r.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("%s after %ds\n", r.EndReason, r.Duration)
	fmt.Println()
	for i, name := range r.Players {
		seat := i + 1
		if name == "" {
			name = "AI"
		}
		marker := " "
		if seat == r.WinnerSeat {
			marker = "*"
		}
		fmt.Printf(" %s %-5s  %-12s  %d\n", marker, multegula.OrientationForSeat(core.PlayerID(seat)), name, r.Scores[i])
	}
	return nil
}

func printMatches(store *storage.Store) error {
	var (
		matches []storage.OnlineMatchResult
		err     error
	)
	if flagScoresPlayer != "" {
		matches, err = store.PlayerMatchHistory(flagScoresPlayer, 10)
	} else {
		matches, err = store.RecentOnlineMatches(10)
	}
	if err != nil {
		return err
	}

	fmt.Println("Online Matches")
	fmt.Println()
	if len(matches) == 0 {
		fmt.Println("No online matches recorded yet.")
		return nil
	}

	for _, r := range matches {
		seats := make([]string, 0, len(r.Players))
		for i, name := range r.Players {
			if name == "" {
				name = "AI"
			}
			seats = append(seats, fmt.Sprintf("%s %d", name, r.Scores[i]))
		}
		winner := r.Winner()
		if winner == "" {
			winner = "-"
		}
		fmt.Printf("  %s  %-40s  winner: %-10s  %s (%ds)\n",
			r.CreatedAt.Format("2006-01-02 15:04"), strings.Join(seats, ", "), winner, r.EndReason, r.Duration)
	}
	return nil
}

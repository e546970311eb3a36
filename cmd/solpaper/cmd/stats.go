package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank all traders by live equity",
	Args:  cobra.NoArgs,
	RunE:  runLeaderboard,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your trading statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Show usage analytics (admins only)",
	Args:  cobra.NoArgs,
	RunE:  runAdmin,
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(adminCmd)
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "leaderboard")

	entries := a.stats.Leaderboard(cmd.Context())
	if len(entries) == 0 {
		fmt.Println("No active traders yet")
		return nil
	}

	for i, e := range entries {
		fmt.Printf("%2d. user %d  %.4f SOL (%+.2f%%)\n", i+1, e.UserID, e.Equity, e.ReturnPct)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "stats")

	s, ok := a.stats.UserStats(cmd.Context(), userID)
	if !ok || s.TotalTrades == 0 {
		fmt.Println("No trading history yet")
		return nil
	}

	fmt.Printf("Total trades: %d (%d buys, %d sells)\n", s.TotalTrades, s.Buys, s.Sells)
	if s.Sells > 0 {
		fmt.Printf("Wins/losses: %d/%d (win rate %.1f%%)\n", s.Wins, s.Losses, s.WinRatePct)
		fmt.Printf("Realized P/L: %+.4f SOL\n", s.RealizedPL)
	}
	fmt.Printf("Equity: %.4f SOL (%+.2f%%)\n", s.Equity, s.ReturnPct)
	return nil
}

func runAdmin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	an, err := a.stats.AdminAnalytics(userID)
	if err != nil {
		return err
	}

	fmt.Printf("Total users: %d (new today: %d)\n", an.TotalUsers, an.NewToday)
	fmt.Printf("Active: %d (24h), %d (7d), %d (30d)\n", an.ActiveDay, an.ActiveWeek, an.ActiveMonth)
	if len(an.TopCommands) > 0 {
		fmt.Println("Top commands:")
		for _, c := range an.TopCommands {
			fmt.Printf("  %s: %d\n", c.Command, c.Count)
		}
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <token>",
	Short: "Add a token to the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Show the watchlist with live prices",
	Args:  cobra.NoArgs,
	RunE:  runWatchlist,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(watchlistCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "watch")

	if !a.ledger.Watch(userID, args[0]) {
		fmt.Println("Already in your watchlist")
		return nil
	}
	fmt.Println("Added to watchlist")
	return nil
}

func runWatchlist(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "watchlist")

	quotes := a.stats.WatchlistQuotes(cmd.Context(), userID)
	if len(quotes) == 0 {
		fmt.Println("Watchlist is empty")
		return nil
	}

	for _, q := range quotes {
		fmt.Printf("%s (%s)\n", orUnknown(q.Symbol), q.Token)
		if q.HasPrice() {
			fmt.Printf("  %.9f SOL", q.Price())
			if q.Change24hPct != nil {
				fmt.Printf("  %+.2f%% 24h", *q.Change24hPct)
			}
			fmt.Println()
		} else {
			fmt.Println("  price unavailable")
		}
	}
	return nil
}

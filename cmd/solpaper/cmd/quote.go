package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price <token>",
	Short: "Quick price check",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrice,
}

var infoCmd = &cobra.Command{
	Use:   "info <token>",
	Short: "Full token details",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(infoCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "price")

	q := a.quotes.GetQuote(cmd.Context(), args[0])
	if !q.HasPrice() {
		return fmt.Errorf("could not fetch price for %s", args[0])
	}

	if q.Symbol != "" {
		fmt.Printf("%s\n", q.Symbol)
	}
	fmt.Printf("Price: %.9f SOL", q.Price())
	if q.PriceUSD != nil {
		fmt.Printf(" (~$%.4f)", *q.PriceUSD)
	}
	fmt.Println()
	if q.DexName != "" {
		fmt.Printf("Source: %s\n", q.DexName)
	}
	if q.Change24hPct != nil {
		fmt.Printf("24h: %+.2f%%\n", *q.Change24hPct)
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "info")

	q := a.quotes.GetQuote(cmd.Context(), args[0])
	if !q.HasPrice() {
		return fmt.Errorf("token not found or no price available: %s", args[0])
	}

	fmt.Printf("%s (%s)\n", orUnknown(q.Name), orUnknown(q.Symbol))
	fmt.Printf("Address: %s\n", q.Token)
	if q.DexName != "" {
		fmt.Printf("Source: %s\n", q.DexName)
	}
	fmt.Printf("Fetched: %s\n\n", q.FetchedAt.Format("15:04:05"))

	fmt.Printf("Price: %.9f SOL", q.Price())
	if q.PriceUSD != nil {
		fmt.Printf(" (~$%.4f)", *q.PriceUSD)
	}
	fmt.Println()

	if q.Change24hPct != nil {
		fmt.Printf("24h change: %+.2f%%\n", *q.Change24hPct)
	}
	if q.MarketCapUSD != nil {
		fmt.Printf("Market cap: $%.0f\n", *q.MarketCapUSD)
	}
	if q.LiquidityUSD != nil {
		fmt.Printf("Liquidity: $%.0f\n", *q.LiquidityUSD)
	}
	if q.Volume24hUSD != nil {
		fmt.Printf("24h volume: $%.0f\n", *q.Volume24hUSD)
	}
	if q.CreatedAt != nil {
		fmt.Printf("Created: %s\n", q.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/letbuildnow/solPaper/ledger"
)

var buyCmd = &cobra.Command{
	Use:   "buy <token> <sol_amount>",
	Short: "Buy tokens with virtual SOL",
	Args:  cobra.ExactArgs(2),
	RunE:  runBuy,
}

var sellCmd = &cobra.Command{
	Use:   "sell <token> <amount|pct%|all>",
	Short: "Sell part or all of a position",
	Args:  cobra.ExactArgs(2),
	RunE:  runSell,
}

func init() {
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(sellCmd)
}

func runBuy(cmd *cobra.Command, args []string) error {
	token := args[0]
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ledger.ErrInvalidAmount, args[1])
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "buy")

	res, err := a.ledger.Buy(cmd.Context(), userID, token, amount)
	if err != nil {
		return err
	}

	fmt.Printf("Bought %.2f %s\n", res.TokensBought, orUnknown(res.Symbol))
	fmt.Printf("  Price: %.9f SOL (slippage %.2f%%)\n", res.ExecPrice, res.SlippagePct)
	if res.Dex != "" {
		fmt.Printf("  Source: %s\n", res.Dex)
	}
	fmt.Printf("  Spent: %.4f SOL\n", res.SpentSOL)
	fmt.Printf("  Balance: %.4f SOL\n", res.BalanceAfter)
	return nil
}

func runSell(cmd *cobra.Command, args []string) error {
	token := args[0]
	sel, err := ledger.ParseSellAmount(args[1])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "sell")

	res, err := a.ledger.Sell(cmd.Context(), userID, token, sel)
	if err != nil {
		return err
	}

	fmt.Printf("Sold %.2f %s\n", res.TokensSold, orUnknown(res.Symbol))
	fmt.Printf("  Price: %.9f SOL (slippage %.2f%%)\n", res.ExecPrice, res.SlippagePct)
	fmt.Printf("  Received: %.4f SOL\n", res.ProceedsSOL)
	fmt.Printf("  P/L: %+.4f SOL (%+.2f%%)\n", res.RealizedPL, res.RealizedPct)
	fmt.Printf("  Balance: %.4f SOL\n", res.BalanceAfter)
	if res.Closed {
		fmt.Println("  Position closed")
	} else {
		fmt.Printf("  Remaining: %.2f\n", res.Remaining.Amount)
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "tokens"
	}
	return s
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/letbuildnow/solPaper/ledger"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show balance and open positions",
	Args:  cobra.NoArgs,
	RunE:  runPortfolio,
}

var historyN int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent trades",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var fundCmd = &cobra.Command{
	Use:   "fund <amount>",
	Short: "Add virtual SOL to the balance",
	Args:  cobra.ExactArgs(1),
	RunE:  runFund,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the portfolio to the starting balance",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	historyCmd.Flags().IntVarP(&historyN, "count", "n", 10, "number of trades to show")

	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(fundCmd)
	rootCmd.AddCommand(resetCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "portfolio")
	a.ledger.EnsurePortfolio(userID)

	p, _ := a.ledger.Portfolio(userID)
	fmt.Printf("Cash: %.4f SOL\n", p.Balance)

	if len(p.Positions) == 0 {
		fmt.Println("No positions")
		return nil
	}

	total := p.Balance
	for token, pos := range p.Positions {
		q := a.quotes.GetQuote(cmd.Context(), token)

		fmt.Printf("\n%s (%s)\n", orUnknown(pos.Symbol), token)
		fmt.Printf("  Amount: %.2f\n", pos.Amount)
		fmt.Printf("  Avg: %.9f SOL\n", pos.AvgPrice)
		if q.HasPrice() {
			value := pos.Amount * q.Price()
			profit := (q.Price() - pos.AvgPrice) * pos.Amount
			total += value
			fmt.Printf("  Now: %.9f SOL\n", q.Price())
			fmt.Printf("  Value: %.4f SOL\n", value)
			fmt.Printf("  P/L: %+.4f SOL\n", profit)
		} else {
			// Unpriceable right now; value it at cost.
			total += pos.Amount * pos.AvgPrice
			fmt.Println("  Now: price unavailable")
		}
	}

	start := a.ledger.StartingBalance()
	fmt.Printf("\nTotal value: %.4f SOL\n", total)
	fmt.Printf("Total P/L: %+.4f SOL (%+.2f%%)\n", total-start, (total/start-1)*100)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "history")

	trades := a.ledger.History(userID, historyN)
	if len(trades) == 0 {
		fmt.Println("No trade history yet")
		return nil
	}

	for i := len(trades) - 1; i >= 0; i-- {
		t := trades[i]
		fmt.Printf("%s %s  %.2f @ %.9f SOL", t.Timestamp.Format("2006-01-02 15:04:05"), t.Kind, t.Amount, t.ExecPrice)
		if t.Kind == ledger.TradeSell {
			fmt.Printf("  P/L %+.4f SOL", t.RealizedPL)
		}
		fmt.Printf("  (%s)\n", t.Token)
	}
	return nil
}

func runFund(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ledger.ErrInvalidAmount, args[0])
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "fund")

	balance, err := a.ledger.Fund(userID, amount)
	if err != nil {
		return err
	}
	fmt.Printf("Added %.4f SOL. Balance: %.4f SOL\n", amount, balance)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "reset")
	a.ledger.Reset(userID)

	fmt.Printf("Portfolio reset. Starting balance: %.4f SOL\n", a.ledger.StartingBalance())
	return nil
}

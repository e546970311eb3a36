package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/letbuildnow/solPaper/ledger"
)

var settingsCmd = &cobra.Command{
	Use:   "settings [slippage_pct]",
	Short: "Show or set the slippage tolerance",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettings,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.ledger.LogActivity(userID, "", "settings")

	if len(args) == 1 {
		pct, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ledger.ErrInvalidAmount, args[0])
		}
		if err := a.ledger.SetSlippage(userID, pct); err != nil {
			return err
		}
		fmt.Printf("Slippage tolerance set to %.1f%%\n", pct)
		return nil
	}

	s := a.ledger.Settings(userID)
	fmt.Printf("Slippage tolerance: %.1f%%\n", s.SlippagePct)
	return nil
}

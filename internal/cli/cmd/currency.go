package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/nexus/internal/cli/styles"
	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/widget"
)

var (
	currencyFrom    string
	currencyTo      string
	currencyRefresh bool
	currencySave    bool
)

var currencyCmd = &cobra.Command{
	Use:   "currency [amount]",
	Short: "Convert between currencies",
	Long: `Convert an amount between currencies using day-cached exchange
rates (USD base). Without an amount, shows the rate of the preferred
pair.

Examples:
  nexus currency                      # rate of the saved pair
  nexus currency 100                  # convert 100 of the saved pair
  nexus currency 100 --from EUR --to JPY
  nexus currency --from EUR --to JPY --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCurrency,
}

func init() {
	currencyCmd.Flags().StringVar(&currencyFrom, "from", "", "source currency code")
	currencyCmd.Flags().StringVar(&currencyTo, "to", "", "target currency code")
	currencyCmd.Flags().BoolVar(&currencyRefresh, "refresh", false, "force a rate refresh")
	currencyCmd.Flags().BoolVar(&currencySave, "save", false, "save the pair as preference")
	rootCmd.AddCommand(currencyCmd)
}

func runCurrency(_ *cobra.Command, args []string) error {
	a := GetApp()
	ctx := a.Ctx()
	theme := styles.NewTheme(a.Settings.Theme(ctx))

	prefs := a.Currency.Prefs(ctx)
	from, to := prefs.FromCurrency, prefs.ToCurrency
	if currencyFrom != "" {
		from = currencyFrom
	}
	if currencyTo != "" {
		to = currencyTo
	}

	if currencySave {
		if !a.Currency.SetPrefs(ctx, entity.CurrencyPrefs{FromCurrency: from, ToCurrency: to}) {
			return fmt.Errorf("failed to save currency preferences")
		}
		fmt.Printf("Saved pair %s/%s\n", from, to)
	}

	rates, err := a.Currency.Rates(ctx, currencyRefresh)
	if err != nil {
		return fmt.Errorf("get rates: %w", err)
	}

	amount := 1.0
	if len(args) == 1 {
		amount, err = strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[0])
		}
	}

	result := widget.Convert(rates, from, to, amount)
	fmt.Printf("%s %s = %s %s\n",
		strconv.FormatFloat(amount, 'f', -1, 64), from,
		strconv.FormatFloat(result, 'f', 2, 64), to,
	)
	fmt.Println(theme.Subtle.Render(fmt.Sprintf(
		"rate %.4f, as of %s (%s)",
		widget.Rate(rates, from, to),
		rates.Date,
		styles.RelativeTime(time.UnixMilli(rates.Timestamp)),
	)))
	return nil
}

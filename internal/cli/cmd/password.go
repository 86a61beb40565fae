package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/widget"
)

var (
	passwordPIN     bool
	passwordLength  int
	passwordNumbers bool
	passwordSymbols bool
	passwordSave    bool
)

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Generate a password",
	Long: `Generate a random password or numeric PIN. Without flags the
persisted generator settings apply.

Examples:
  nexus password
  nexus password --length 16 --numbers --symbols
  nexus password --pin --length 4`,
	RunE: runPassword,
}

func init() {
	passwordCmd.Flags().BoolVar(&passwordPIN, "pin", false, "generate a numeric PIN")
	passwordCmd.Flags().IntVar(&passwordLength, "length", 0, "output length (0 = use saved setting)")
	passwordCmd.Flags().BoolVar(&passwordNumbers, "numbers", false, "include digits")
	passwordCmd.Flags().BoolVar(&passwordSymbols, "symbols", false, "include symbols")
	passwordCmd.Flags().BoolVar(&passwordSave, "save", false, "persist these settings")
	rootCmd.AddCommand(passwordCmd)
}

func runPassword(cmd *cobra.Command, _ []string) error {
	a := GetApp()
	ctx := a.Ctx()

	settings := a.Settings.Password(ctx)
	if passwordPIN {
		settings.Type = entity.PasswordTypePIN
	}
	if cmd.Flags().Changed("length") {
		if settings.Type == entity.PasswordTypePIN {
			settings.PINLength = passwordLength
		} else {
			settings.RandomLength = passwordLength
		}
	}
	if cmd.Flags().Changed("numbers") {
		settings.IncludeNumbers = passwordNumbers
	}
	if cmd.Flags().Changed("symbols") {
		settings.IncludeSymbols = passwordSymbols
	}

	password, err := widget.GeneratePassword(settings)
	if err != nil {
		return err
	}

	if passwordSave {
		if !a.Settings.SetPassword(ctx, settings) {
			return fmt.Errorf("failed to save password settings")
		}
	}

	fmt.Println(password)
	return nil
}

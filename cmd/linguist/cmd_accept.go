package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	acceptLocale string
	acceptAll    bool
)

func initAcceptCmd() {
	cmd := &cobra.Command{
		Use:   "accept FILE_ID",
		Short: "Mark reviewed translations of a stored catalog finished",
		Long: `accept turns unfinished translations that have text into finished ones.
By default only machine translations are accepted; --all includes every
unfinished translation.`,
		Args: cobra.ExactArgs(1),
		RunE: runAccept,
	}
	cmd.Flags().StringVar(&acceptLocale, "locale", "", "locale (default the file's)")
	cmd.Flags().BoolVar(&acceptAll, "all", false, "accept human translations marked unfinished too")
	rootCmd.AddCommand(cmd)
}

func runAccept(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := parseID(args[0], "file")
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	locale := acceptLocale
	if locale == "" {
		f, err := a.Files.Get(ctx, id)
		if err != nil {
			return err
		}
		locale = f.Locale
	}
	n, err := a.Translations.Accept(ctx, id, locale, !acceptAll)
	if err != nil {
		return err
	}
	fmt.Printf("accepted %d %s translation(s)\n", n, locale)
	return nil
}

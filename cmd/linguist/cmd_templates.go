package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"linguist/internal/api/app"
	"linguist/internal/domain"
)

var templateProvider string

func initTemplatesCmd() {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Show the prompts translate sends",
		Long: `templates prints the system and user prompts used for translation, for a
provider with --provider or globally. Prompts are Go templates; see the
builtin ones for the fields they can use.`,
		Args: cobra.NoArgs,
		RunE: runTemplatesShow,
	}
	cmd.PersistentFlags().StringVar(&templateProvider, "provider", "", "provider name or id (default global)")
	set := &cobra.Command{
		Use:   "set system|user FILE",
		Short: "Replace a prompt with the contents of FILE, - for stdin",
		Args:  cobra.ExactArgs(2),
		RunE:  runTemplatesSet,
	}
	reset := &cobra.Command{
		Use:   "reset system|user",
		Short: "Go back to the builtin prompt",
		Args:  cobra.ExactArgs(1),
		RunE:  runTemplatesReset,
	}
	cmd.AddCommand(set, reset)
	rootCmd.AddCommand(cmd)
}

func templateScope(ctx context.Context, a *app.App) (*int64, error) {
	if templateProvider == "" {
		return nil, nil
	}
	p, err := a.Providers.Resolve(ctx, templateProvider)
	if err != nil {
		return nil, err
	}
	return &p.ID, nil
}

func runTemplatesShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ref, err := templateScope(ctx, a)
	if err != nil {
		return err
	}
	list, err := a.Templates.Show(ctx, ref)
	if err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(os.Stdout, list)
	}
	for _, t := range list {
		origin := "builtin"
		if t.Stored {
			origin = "stored"
		}
		fmt.Printf("%s %s\n%s\n\n", bold(t.Role), faint("("+origin+")"), t.Body)
	}
	return nil
}

func runTemplatesSet(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[1] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[1])
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%s is empty, use templates reset", args[1])
	}
	return storeTemplate(cmd.Context(), args[0], string(data))
}

func runTemplatesReset(cmd *cobra.Command, args []string) error {
	return storeTemplate(cmd.Context(), args[0], "")
}

func storeTemplate(ctx context.Context, role, body string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ref, err := templateScope(ctx, a)
	if err != nil {
		return err
	}
	if err := a.Templates.Set(ctx, ref, role, body); err != nil {
		return err
	}
	scope := domain.ScopeGlobal
	if ref != nil {
		scope = templateProvider
	}
	if body == "" {
		fmt.Printf("%s prompt (%s) reset to builtin\n", role, scope)
	} else {
		fmt.Printf("%s prompt (%s) updated\n", role, scope)
	}
	return nil
}

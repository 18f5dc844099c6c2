package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"linguist/internal/adapters/llm/httpclient"
	"linguist/internal/domain"
)

var (
	providerNew    domain.Provider
	providerKeyEnv string
	providerTestTo string
	providerCached bool
	providerEdit   domain.Provider
)

func initProvidersCmd() {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Manage the LLM providers used by translate",
		Args:  cobra.NoArgs,
		RunE:  runProvidersList,
	}
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a provider",
		Args:  cobra.ExactArgs(1),
		RunE:  runProvidersAdd,
	}
	add.Flags().StringVar(&providerNew.Type, "type", httpclient.TypeOllama, "provider type: "+strings.Join(httpclient.Types(), ", "))
	add.Flags().StringVar(&providerNew.BaseURL, "url", "", "base URL (default the type's public endpoint)")
	add.Flags().StringVar(&providerNew.Model, "model", "", "default model")
	add.Flags().StringVar(&providerKeyEnv, "key-env", "", "environment variable holding the API key")
	models := &cobra.Command{
		Use:   "models NAME",
		Short: "List the models a provider offers",
		Args:  cobra.ExactArgs(1),
		RunE:  runProvidersModels,
	}
	models.Flags().BoolVar(&providerCached, "cached", false, "print the models stored by the last lookup")
	edit := &cobra.Command{
		Use:   "edit NAME",
		Short: "Change a provider's name, URL, model or key",
		Args:  cobra.ExactArgs(1),
		RunE:  runProvidersEdit,
	}
	edit.Flags().StringVar(&providerEdit.Name, "name", "", "new name")
	edit.Flags().StringVar(&providerEdit.BaseURL, "url", "", "base URL")
	edit.Flags().StringVar(&providerEdit.Model, "model", "", "default model")
	edit.Flags().StringVar(&providerKeyEnv, "key-env", "", "environment variable holding the API key")
	def := &cobra.Command{
		Use:   "default [NAME]",
		Short: "Show or set the provider translate uses without --provider",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProvidersDefault,
	}
	test := &cobra.Command{
		Use:   "test NAME",
		Short: "Translate a sample string with a provider",
		Args:  cobra.ExactArgs(1),
		RunE:  runProvidersTest,
	}
	test.Flags().StringVar(&providerTestTo, "to", "ru", "target language of the sample")
	check := &cobra.Command{
		Use:   "check",
		Short: "Check that every provider answers",
		Args:  cobra.NoArgs,
		RunE:  runProvidersCheck,
	}
	rm := &cobra.Command{
		Use:   "rm NAME",
		Short: "Remove a provider",
		Args:  cobra.ExactArgs(1),
		RunE:  runProvidersRemove,
	}
	cmd.AddCommand(add, edit, def, models, test, check, rm)
	rootCmd.AddCommand(cmd)
}

func runProvidersList(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	list, err := a.Providers.List(cmd.Context())
	if err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(os.Stdout, list)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tMODEL\tURL\tKEY")
	for _, p := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Type, p.Model, p.BaseURL, p.APIKey)
	}
	return w.Flush()
}

func runProvidersAdd(cmd *cobra.Command, args []string) error {
	p := providerNew
	p.Name = args[0]
	if providerKeyEnv != "" {
		if p.APIKey = os.Getenv(providerKeyEnv); p.APIKey == "" {
			return fmt.Errorf("%s is empty", providerKeyEnv)
		}
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	created, err := a.Providers.Create(cmd.Context(), p)
	if err != nil {
		return err
	}
	fmt.Printf("added provider #%d %s (%s, model %s)\n", created.ID, created.Name, created.Type, created.Model)
	return nil
}

func runProvidersModels(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	p, err := a.Providers.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	if providerCached {
		names, err := a.Providers.CachedModels(ctx, p.ID)
		if err != nil {
			return err
		}
		if flags.JSON {
			return printJSON(os.Stdout, names)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}
	models, err := a.Providers.ListModels(ctx, p.ID)
	if err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(os.Stdout, models)
	}
	for _, m := range models {
		line := m.Name
		if m.Description != "" && m.Description != m.Name {
			line += faint("  " + m.Description)
		}
		if m.ContextTokens > 0 {
			line += faint(fmt.Sprintf("  %dk", m.ContextTokens/1000))
		}
		fmt.Println(line)
	}
	return nil
}

func runProvidersTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	p, err := a.Providers.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	res, err := a.Providers.Test(ctx, p.ID, providerTestTo)
	if err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(os.Stdout, res)
	}
	if !res.Ok {
		return fmt.Errorf("provider %s: %s", p.Name, res.Error)
	}
	fmt.Printf("%s %q\n", green("ok"), res.Translation)
	return nil
}

func runProvidersCheck(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	res, err := a.Providers.HealthCheck(cmd.Context())
	if err != nil {
		return err
	}
	names := make([]string, 0, len(res))
	for n := range res {
		names = append(names, n)
	}
	sort.Strings(names)
	failed := 0
	for _, n := range names {
		if err := res[n]; err != nil {
			failed++
			fmt.Printf("%s %s: %v\n", red("down"), n, err)
		} else {
			fmt.Printf("%s %s\n", green("up"), n)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d provider(s) failed", failed, len(names))
	}
	return nil
}

func runProvidersRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	p, err := a.Providers.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.Providers.Delete(ctx, p.ID); err != nil {
		return err
	}
	fmt.Printf("removed provider %s\n", p.Name)
	return nil
}

func runProvidersEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	p, err := a.Providers.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	if providerEdit.Name != "" {
		p.Name = providerEdit.Name
	}
	if providerEdit.BaseURL != "" {
		p.BaseURL = providerEdit.BaseURL
	}
	if providerEdit.Model != "" {
		p.Model = providerEdit.Model
	}
	p.APIKey = ""
	if providerKeyEnv != "" {
		if p.APIKey = os.Getenv(providerKeyEnv); p.APIKey == "" {
			return fmt.Errorf("%s is empty", providerKeyEnv)
		}
	}
	updated, err := a.Providers.Update(ctx, *p)
	if err != nil {
		return err
	}
	fmt.Printf("updated provider #%d %s (%s, model %s)\n", updated.ID, updated.Name, updated.Type, updated.Model)
	return nil
}

func runProvidersDefault(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if len(args) == 1 {
		p, err := a.Providers.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		if err := a.Providers.SetDefault(ctx, p.ID); err != nil {
			return err
		}
		fmt.Printf("default provider is now %s\n", p.Name)
		return nil
	}
	p, err := a.Providers.Default(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		return errors.New("no default provider set")
	}
	if flags.JSON {
		p.APIKey = ""
		return printJSON(os.Stdout, p)
	}
	fmt.Println(p.Name)
	return nil
}

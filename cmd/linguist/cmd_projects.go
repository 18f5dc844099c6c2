package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"linguist/internal/domain"
	"linguist/internal/ts"
)

var (
	projectName       string
	projectSourceLang string
)

func initProjectsCmd() {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the projects in the store",
		Args:  cobra.NoArgs,
		RunE:  runProjectsList,
	}
	edit := &cobra.Command{
		Use:   "edit PROJECT",
		Short: "Rename a project or change its source language",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectsEdit,
	}
	edit.Flags().StringVar(&projectName, "name", "", "new name")
	edit.Flags().StringVar(&projectSourceLang, "source-lang", "", "new source language")
	locale := &cobra.Command{
		Use:   "locale LOCALE...",
		Short: "Add target locales to the project",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runProjectsLocale,
	}
	rm := &cobra.Command{
		Use:   "rm PROJECT",
		Short: "Remove a project with its catalogs and translations",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectsRemove,
	}
	cmd.AddCommand(edit, locale, rm)
	rootCmd.AddCommand(cmd)
}

type projectRow struct {
	*domain.Project
	Locales []string `json:"locales"`
}

func runProjectsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	list, err := a.Projects.List(ctx)
	if err != nil {
		return err
	}
	rows := make([]projectRow, 0, len(list))
	for _, p := range list {
		locales, err := a.Projects.ListLocales(ctx, p.ID)
		if err != nil {
			return err
		}
		row := projectRow{Project: p, Locales: []string{}}
		for _, l := range locales {
			row.Locales = append(row.Locales, l.Locale)
		}
		rows = append(rows, row)
	}
	if flags.JSON {
		return printJSON(os.Stdout, rows)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSOURCE\tLOCALES")
	for _, r := range rows {
		name := r.Name
		if name == flags.Project {
			name = bold(name)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, name, r.SourceLang, strings.Join(r.Locales, ","))
	}
	return w.Flush()
}

func runProjectsEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if projectName == "" && projectSourceLang == "" {
		return errors.New("nothing to change: pass --name or --source-lang")
	}
	if projectSourceLang != "" {
		if _, err := ts.ParseLanguage(projectSourceLang); err != nil {
			return err
		}
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	p, err := a.Projects.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	p, err = a.Projects.Update(ctx, p.ID, projectName, projectSourceLang)
	if err != nil {
		return err
	}
	fmt.Printf("project #%d %s (source %s)\n", p.ID, p.Name, p.SourceLang)
	return nil
}

func runProjectsLocale(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	for _, loc := range args {
		if _, err := ts.ParseLanguage(loc); err != nil {
			return err
		}
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	p, err := currentProject(ctx, a)
	if err != nil {
		return err
	}
	for _, loc := range args {
		if _, err := a.Projects.AddLocale(ctx, p.ID, loc); err != nil {
			return err
		}
	}
	fmt.Printf("%s: added %s\n", p.Name, strings.Join(args, ", "))
	return nil
}

func runProjectsRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	p, err := a.Projects.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.Projects.Delete(ctx, p.ID); err != nil {
		return err
	}
	fmt.Printf("removed project %s\n", p.Name)
	return nil
}

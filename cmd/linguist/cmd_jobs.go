package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var jobsLimit int

func initJobsCmd() {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect machine translation jobs",
		Args:  cobra.NoArgs,
		RunE:  runJobsList,
	}
	cmd.PersistentFlags().IntVar(&jobsLimit, "limit", 20, "maximum rows")
	show := &cobra.Command{
		Use:   "show JOB_ID",
		Short: "Show the items of a job",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobsShow,
	}
	logs := &cobra.Command{
		Use:   "logs JOB_ID",
		Short: "Print the log of a job",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobsLogs,
	}
	rm := &cobra.Command{
		Use:   "rm JOB_ID",
		Short: "Delete a job and its items",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobsRemove,
	}
	cmd.AddCommand(show, logs, rm)
	rootCmd.AddCommand(cmd)
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	list, err := a.Jobs.List(cmd.Context(), jobsLimit)
	if err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(os.Stdout, list)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tPROGRESS\tPROVIDER\tUPDATED")
	for _, j := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d/%d\t%s\t%s\n", j.ID, j.Type, status(j.Status), j.Progress, j.Total, j.Provider, j.Updated)
	}
	return w.Flush()
}

func runJobsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := parseID(args[0], "job")
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	j, err := a.Jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	items, err := a.Jobs.Items(ctx, id)
	if err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(os.Stdout, map[string]any{"job": j, "items": items})
	}
	fmt.Printf("job #%d %s %s %d/%d\n", j.ID, j.Type, status(j.Status), j.Progress, j.Total)
	for i, it := range items {
		if i == jobsLimit {
			fmt.Printf("... %d more\n", len(items)-i)
			break
		}
		unit, loc := int64(0), ""
		if it.UnitID != nil {
			unit = *it.UnitID
		}
		if it.Locale != nil {
			loc = *it.Locale
		}
		fmt.Printf("  unit %d %s %s", unit, loc, status(it.Status))
		if it.Error != "" {
			fmt.Printf(" %s", red(it.Error))
		}
		fmt.Println()
	}
	return nil
}

func runJobsLogs(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "job")
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	logs, err := a.Jobs.Logs(cmd.Context(), id, jobsLimit)
	if err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(os.Stdout, logs)
	}
	for _, l := range logs {
		lvl := l.Level
		if lvl == "error" {
			lvl = red(lvl)
		}
		fmt.Printf("%s %s %s\n", faint(l.Time), lvl, l.Message)
	}
	return nil
}

func runJobsRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "job")
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Jobs.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("removed job #%d\n", id)
	return nil
}

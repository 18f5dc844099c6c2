package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"linguist/internal/api/app"
	"linguist/internal/domain"
	"linguist/internal/qm"
	"linguist/internal/ts"
)

// openApp opens the store named by --db, creating its directory.
func openApp() (*app.App, error) {
	if err := os.MkdirAll(filepath.Dir(flags.DBPath), 0o755); err != nil {
		return nil, err
	}
	return app.Open(app.Options{DBPath: flags.DBPath, ProviderTimeout: flags.Timeout, ItemTimeout: flags.ItemTimeout})
}

func currentProject(ctx context.Context, a *app.App) (*domain.Project, error) {
	return a.Projects.Ensure(ctx, flags.Project, "")
}

// readCatalog loads a .ts file, or a compiled .qm file as a catalog.
func readCatalog(path string) (*ts.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if qm.IsQM(data) {
		t, err := qm.Open(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return qm.Decompile(t)
	}
	c, err := ts.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// writeOutput writes data to path, or to stdout when path is "" or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

func severity(s ts.Severity) string {
	switch s {
	case ts.SeverityError:
		return red(string(s))
	case ts.SeverityWarning:
		return yellow(string(s))
	default:
		return faint(string(s))
	}
}

func status(s string) string {
	switch s {
	case domain.StatusFinished, domain.JobDone:
		return green(s)
	case domain.StatusUnfinished, domain.JobRunning, domain.JobQueued:
		return yellow(s)
	case domain.JobFailed, domain.JobCanceled:
		return red(s)
	default:
		return faint(s)
	}
}

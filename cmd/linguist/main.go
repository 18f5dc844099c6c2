package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"linguist/internal/cli"
)

var log = logging.Logger("linguist")

var (
	flags   = cli.NewFlags()
	rootCmd = cli.CreateRootCommand(flags)
)

func init() {
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	initValidateCmd()
	initStatsCmd()
	initCompileCmd()
	initDumpCmd()
	initConvertCmd()
	initMergeCmd()
	initLookupCmd()
	initImportCmd()
	initFilesCmd()
	initExportCmd()
	initTranslateCmd()
	initAcceptCmd()
	initProvidersCmd()
	initJobsCmd()
	initProjectsCmd()
	initTemplatesCmd()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version is stamped by the build.
var Version = "dev"

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linguist",
		Short: "Qt Linguist translation catalog toolkit",
		Long: `linguist reads, checks, merges, converts and compiles Qt Linguist
translation catalogs (.ts), and keeps them in a local store where they can
be machine translated and reviewed.

Examples:
  linguist validate languages/*.ts          # check every catalog
  linguist compile -d build languages/*.ts  # lrelease equivalent
  linguist merge old/ru_RU.ts new/ru_RU.ts  # lupdate-style update
  linguist import --project citra ru_RU.ts  # load into the store`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Apply(flags)
		},
	}

	setupFlags(rootCmd.PersistentFlags(), flags)

	return rootCmd
}

func setupFlags(pf *pflag.FlagSet, flags *Flags) {
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.linguist.yaml)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "log level: debug, info, warn, error")
	pf.StringVar(&flags.DBPath, "db", flags.DBPath, "path of the sqlite store")
	pf.StringVarP(&flags.Project, "project", "p", flags.Project, "project the store commands work on")
	pf.IntVarP(&flags.Jobs, "jobs", "j", flags.Jobs, "files processed in parallel")
	pf.BoolVar(&flags.JSON, "json", false, "print machine readable output")
	pf.BoolVar(&flags.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "timeout of a single provider request")
	pf.DurationVar(&flags.ItemTimeout, "item-timeout", flags.ItemTimeout, "timeout of one message including retries")

	bindFlagsToViper(pf)
}

func bindFlagsToViper(pf *pflag.FlagSet) {
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("db.path", pf.Lookup("db"))
	_ = viper.BindPFlag("project", pf.Lookup("project"))
	_ = viper.BindPFlag("jobs", pf.Lookup("jobs"))
	_ = viper.BindPFlag("output.json", pf.Lookup("json"))
	_ = viper.BindPFlag("output.no_color", pf.Lookup("no-color"))
	_ = viper.BindPFlag("provider.timeout", pf.Lookup("timeout"))
	_ = viper.BindPFlag("provider.item_timeout", pf.Lookup("item-timeout"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".linguist")
	}

	viper.SetEnvPrefix("LINGUIST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Apply copies config and environment values into flags the user did not
// set on the command line, then sets up logging and color.
func Apply(flags *Flags) error {
	flags.LogLevel = viper.GetString("log.level")
	flags.DBPath = viper.GetString("db.path")
	flags.Project = viper.GetString("project")
	flags.Jobs = viper.GetInt("jobs")
	flags.JSON = viper.GetBool("output.json")
	flags.NoColor = viper.GetBool("output.no_color")
	flags.Timeout = viper.GetDuration("provider.timeout")
	flags.ItemTimeout = viper.GetDuration("provider.item_timeout")
	if flags.Jobs < 1 {
		flags.Jobs = 1
	}
	if flags.NoColor {
		color.NoColor = true
	}
	if err := logging.SetLogLevel("*", flags.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", flags.LogLevel, err)
	}
	return nil
}

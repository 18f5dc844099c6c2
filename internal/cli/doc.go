// Package cli provides command-line interface setup and configuration
// for linguist. It handles the global flags, the root command and
// configuration loading using cobra and viper.
package cli

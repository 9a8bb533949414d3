// Package cmd provides the command-line interface for emojikit with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --locale, etc.) - highest priority
//	2. EMOJIKIT_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (EMOJIKIT_SERVER_PORT, etc.)
//	4. Configuration files (.emojikit.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "emojikit",
	Short: "An emoji picker data, filtering and layout engine",
	Long: `Emojikit is the data, filtering and layout engine behind an emoji picker:
a catalog with skintone resolution, recent/frequent suggestion tracking,
locale-aware keyword search, and a row packer producing virtual-scroll-ready
row sequences.

Quick Start:
  emojikit serve                  Start the demo preview server
  emojikit search <text>          Rank emojis against a search string
  emojikit list                   List the catalog by category`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .emojikit.yml, can also use EMOJIKIT_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("locale", "", "locale for keyword search and labels")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("locale", rootCmd.PersistentFlags().Lookup("locale"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. EMOJIKIT_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .emojikit.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("EMOJIKIT_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".emojikit")
	}

	// Enable automatic environment variable binding with EMOJIKIT_ prefix
	// Examples: EMOJIKIT_SERVER_PORT, EMOJIKIT_STORAGE_DRIVER, EMOJIKIT_LOCALE
	viper.SetEnvPrefix("EMOJIKIT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Package cmd wires the CLI: parse for one-shot files, detect for
// format inspection, view for the interactive browser, watch for live
// tailing and serve for the HTTP API.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mikedotJS/loggy/internal/logging"
)

var (
	cfgFile    string
	logLevel   string
	outputMode string
)

var rootCmd = &cobra.Command{
	Use:   "loggy",
	Short: "Make unstructured log files readable",
	Long: `loggy normalizes messy log files into structured records.

It recognizes JSON lines, ISO and syslog timestamps, Apache access
logs and a few other common shapes, extracts severity and embedded
JSON payloads, and lets you filter, browse, tail and serve the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and reports the exit error, if any.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.loggy.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "diagnostic log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputMode, "output", "o", "text", "output mode: text or json (detect also accepts yaml)")

	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

// initConfig loads the optional config file and environment overrides.
// Precedence is flags, then LOGGY_* environment, then the file.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".loggy")
	}

	viper.SetEnvPrefix("LOGGY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logging.Setup(viper.GetString("log-level"))
		logging.Component("cmd").Debugf("using config %s", viper.ConfigFileUsed())
		return
	}
	logging.Setup(viper.GetString("log-level"))
}

// renderModeJSON reports whether structured output was requested.
func renderModeJSON() bool {
	return viper.GetString("output") == "json"
}

// readLogFile loads a log file for the one-shot commands.
func readLogFile(path string) (content, name string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), filepath.Base(path), nil
}

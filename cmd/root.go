/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mpapenbr/racesim/log"
	simulateCmd "github.com/mpapenbr/racesim/pkg/cmd/simulate"
	trackCmd "github.com/mpapenbr/racesim/pkg/cmd/track"
	"github.com/mpapenbr/racesim/pkg/config"
	"github.com/mpapenbr/racesim/version"
)

const envPrefix = "RSIM"

var (
	cfgFile string
	logFile *os.File // set if logging to --log-file
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "rsim",
	Short:   "Top-down racing simulation",
	Long:    ``,
	Version: version.FullVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		//nolint:errcheck // sync on stderr fails on some platforms
		log.Sync()
		closeLogFile()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.rsim.yml)")

	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.LogConfig,
		"log-config",
		"",
		"log config file (yaml), level changes are applied while running")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules, e.g. \"info,warn,error:* debug:world\"")
	rootCmd.PersistentFlags().StringVar(&config.LogFile,
		"log-file",
		"",
		"write log output to this file (default stderr, discarded with --tui)")
	rootCmd.PersistentFlags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"Duration to wait for other services to be ready")

	// add commands here
	rootCmd.AddCommand(simulateCmd.NewSimulateCmd())
	rootCmd.AddCommand(trackCmd.NewTrackCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "prints the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.FullVersion)
		},
	})
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".rsim" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rsim")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

//nolint:cyclop // by design
func setupLogger(cmd *cobra.Command) error {
	level, format, filter := config.LogLevel, config.LogFormat, config.LogFilter
	if config.LogConfig != "" {
		fc, err := log.LoadConfig(config.LogConfig)
		if err != nil {
			return err
		}
		if fc.Level != "" && !cmd.Flags().Changed("log-level") {
			level = fc.Level
		}
		if fc.Format != "" && !cmd.Flags().Changed("log-format") {
			format = fc.Format
		}
		if fc.Filter != "" && !cmd.Flags().Changed("log-filter") {
			filter = fc.Filter
		}
	}

	var writer io.Writer = os.Stderr
	switch {
	case config.LogFile != "":
		closeLogFile()
		f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		logFile = f
		writer = f
	case config.TUI:
		// the terminal belongs to the race view
		writer = io.Discard
	}

	var logger *log.Logger
	switch format {
	case "json":
		logger = log.New(
			writer,
			parseLogLevel(level, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			writer,
			parseLogLevel(level, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	logger, err := logger.WithFilter(filter)
	if err != nil {
		return fmt.Errorf("invalid log filter: %w", err)
	}
	if config.LogConfig != "" {
		if err := logger.WatchConfig(cmd.Context(), config.LogConfig); err != nil {
			logger.Warn("could not watch log config", log.ErrorField(err))
		}
	}
	log.ResetDefault(logger)
	cmd.SetContext(log.AddToContext(cmd.Context(), logger))
	return nil
}

func closeLogFile() {
	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Could not close log file: %v\n", err)
	}
	logFile = nil
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --favorite-color to RSIM_FAVORITE_COLOR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}

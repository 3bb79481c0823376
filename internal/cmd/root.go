package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"flow_tui/internal/config"
)

var (
	cfgFile string
	verbose bool
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "flow",
	Short: "Focus timer and daily log for the terminal",
	Long: `Flow runs a single focus session countdown next to a running log of
notes. Sessions and notes live only as long as the program runs.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.flow.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.String("session", "", `session length in minutes or as a duration ("25", "50m")`)
	flags.String("backend", config.BackendMemory, "timeline backend: memory, sqlite")
	flags.String("clock", "auto", "entry clock format: auto, 24h, 12h")
	flags.String("log-file", "", "write logs to this file")

	cobra.CheckErr(v.BindPFlag("timeline.backend", flags.Lookup("backend")))
	cobra.CheckErr(v.BindPFlag("clock", flags.Lookup("clock")))
	cobra.CheckErr(v.BindPFlag("log.file", flags.Lookup("log-file")))
}

func initConfig() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".flow")
		v.SetConfigType("yaml")
	}

	config.BindEnv(v)
	_ = v.ReadInConfig()
}

// loadConfig merges file, environment and flag settings.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if s, _ := cmd.Flags().GetString("session"); s != "" {
		seconds, err := config.ParseSessionLength(s)
		if err != nil {
			return config.Config{}, fmt.Errorf("--session: %w", err)
		}
		v.Set("session_seconds", seconds)
	}
	if verbose {
		v.Set("log.level", "debug")
	}
	return config.Load(v)
}

// configPath is where the settings screen saves to.
func configPath() string {
	if used := v.ConfigFileUsed(); used != "" {
		return used
	}
	if p, err := config.DefaultPath(); err == nil {
		return p
	}
	return ""
}

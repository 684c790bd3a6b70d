package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/parallax/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "parallax",
	Short: "Parallax - two-arm evidence verification for public claims",
	Long: `Parallax checks factual claims by looking at them from two angles at once.

For every claim it plans two independent search arms: one that would
confirm the claim and one that would knock it down. Evidence from both
arms is normalized, ranked, and scored for stance, credibility, and
numeric consistency before a verdict is composed.

It does not determine what is true. It measures how well a claim holds
up against available public evidence, and shows its work.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Parallax.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("parallax v0.2.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.parallax/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.parallax")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match PARALLAX_*
	viper.SetEnvPrefix("PARALLAX")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, then any values
// from the config file, then environment variables. CLI flags are applied by
// each command on top of the result.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid config file values ignored: %v\n", err)
		cfg = model.DefaultConfig()
	}

	// API keys come from the environment only, never from the config file
	if key := os.Getenv("BRAVE_API_KEY"); key != "" {
		cfg.Search.BraveAPIKey = key
	}
	if key := os.Getenv("SERPER_API_KEY"); key != "" {
		cfg.Search.SerperAPIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Assist.APIKey = key
	}

	return cfg
}

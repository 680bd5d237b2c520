package cli

import (
	"fmt"
	"os"

	"github.com/pathbench/ihcstruct/internal/dictionary"
	"github.com/pathbench/ihcstruct/internal/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	verbose  bool
	dictPath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ihcstruct",
	Short: "ihcstruct - Structure free-text IHC pathology findings",
	Long: `ihcstruct converts free-text immunohistochemistry (IHC) findings into a
structured, validated record per biomarker: result, staining pattern,
intensity, percent positivity, extent and control status, plus a rendered
narrative, a tabular view and a list of validation errors and warnings.

Extraction is rule-based and deterministic. ihcstruct does not diagnose;
every output is meant for clinician review.`,
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
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ihcstruct v%s (%s)\n", engine.Version, engine.ExtractionModel)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.ihcstruct/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&dictPath, "dict", "", "marker dictionary YAML (default: built-in panel)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("dictionary.path", rootCmd.PersistentFlags().Lookup("dict"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.ihcstruct")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match IHCSTRUCT_*
	viper.SetEnvPrefix("IHCSTRUCT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadDictionary resolves the active marker dictionary: the --dict flag,
// then the configured path, then the built-in panel.
func loadDictionary() (*dictionary.Dictionary, error) {
	path := dictPath
	if path == "" {
		path = viper.GetString("dictionary.path")
	}
	if path == "" {
		return dictionary.Default(), nil
	}
	return dictionary.Load(path)
}

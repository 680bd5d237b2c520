package cli

import (
	"fmt"

	"github.com/pathbench/ihcstruct/internal/dictionary"
	"github.com/pathbench/ihcstruct/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// dictCmd groups marker dictionary commands
var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Inspect and validate marker dictionaries",
}

var dictShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active marker dictionary as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := loadDictionary()
		if err != nil {
			return err
		}

		out := struct {
			Markers []model.MarkerDefinition `yaml:"markers"`
		}{Markers: dict.Definitions()}

		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("marshal dictionary: %w", err)
		}

		fmt.Print(string(data))
		return nil
	},
}

var dictCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a marker dictionary file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := dictionary.Load(args[0])
		if err != nil {
			return err
		}

		aliases := 0
		for _, def := range dict.Definitions() {
			aliases += len(def.Aliases)
		}
		fmt.Printf("✓ %s: %d markers, %d aliases\n", args[0], dict.Len(), aliases)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dictCmd)
	dictCmd.AddCommand(dictShowCmd)
	dictCmd.AddCommand(dictCheckCmd)
}

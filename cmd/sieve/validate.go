package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sieve/internal/cli"
	"github.com/aretw0/sieve/pkg/component"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scenario-file>",
	Short: "Check a scenario document without running it",
	Long:  `Parses the scenario file and resolves every component kind against the registry, reporting the first problem found.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sc, err := cli.LoadScenario(args[0], component.Default())
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Scenario %q is valid (%d components)\n", sc.Name, len(sc.Sequence))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

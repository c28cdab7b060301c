package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/internal/cli"
	"github.com/aretw0/sieve/internal/logging"
	"github.com/aretw0/sieve/pkg/component"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <scenario-file>",
	Short: "Run a scenario document",
	Long:  `Loads a scenario from a YAML or JSON file, executes it, and prints the outcome. The exit code reflects the run: 0 passed, 1 failed, 2 errored.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		levelName, _ := cmd.Flags().GetString("log-level")
		jsonMode, _ := cmd.Flags().GetBool("json")

		level, err := logging.ParseLevel(levelName)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}

		sc, err := cli.LoadScenario(args[0], component.Default())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(2)
		}

		result, err := sc.Run(cmd.Context(), sieve.WithLogger(logging.New(level)))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(2)
		}

		if jsonMode {
			if err := cli.RenderJSON(os.Stdout, result); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(2)
			}
		} else {
			cli.RenderResult(os.Stdout, result)
		}
		os.Exit(cli.ExitCode(result))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Print the full result document as JSON")
}

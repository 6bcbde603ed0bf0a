package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:          "questdbsql",
	Short:        "questdbsql",
	SilenceUsage: true,
	Long:         `Parse, render, lint, and autocomplete QuestDB SQL.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func main() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(parseCmd, toSQLCmd, assistCmd, lintCmd, debugASTCmd)
}

func readSQLArg(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading SQL from stdin: %w", err)
	}
	return string(b), nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oarkflow/questdbsql"
	"github.com/oarkflow/questdbsql/lint"
)

var lintCmd = &cobra.Command{
	Use:   "lint [sql|-]",
	Short: "Parse SQL and report QuestDB-specific advisories",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sql, err := readSQLArg(args)
		if err != nil {
			return err
		}
		stmts, errs := questdbsql.ParseStatements(sql)
		for _, e := range errs {
			log.WithError(e).Warn("statement failed to parse")
		}
		report := lint.Analyze(stmts)
		fmt.Println(report.String())
		for _, f := range report.Findings {
			fmt.Printf("  [%s] %s: %s\n", f.Severity, f.Code, f.Message)
		}
		return nil
	},
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oarkflow/questdbsql"
)

var parseCmd = &cobra.Command{
	Use:   "parse [sql|-]",
	Short: "Parse SQL and report statement count and any errors",
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
		fmt.Printf("parsed %d statement(s), %d error(s)\n", len(stmts), len(errs))
		if len(errs) > 0 {
			return errs[0]
		}
		return nil
	},
}

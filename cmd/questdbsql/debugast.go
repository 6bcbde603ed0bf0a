package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oarkflow/questdbsql"
	"github.com/oarkflow/questdbsql/serializer"
)

var debugASTCmd = &cobra.Command{
	Use:   "debug-ast [sql|-]",
	Short: "Parse SQL and pretty-print the resulting AST",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sql, err := readSQLArg(args)
		if err != nil {
			return err
		}
		stmt, perr := questdbsql.ParseOne(sql)
		if perr != nil {
			return perr
		}
		fmt.Println(serializer.DebugString(stmt))
		return nil
	},
}

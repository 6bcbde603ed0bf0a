package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oarkflow/questdbsql"
)

var toSQLCmd = &cobra.Command{
	Use:   "tosql [sql|-]",
	Short: "Parse SQL and render it back in canonical QuestDB form",
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
		out, serr := questdbsql.ToSQL(stmt)
		if serr != nil {
			return serr
		}
		fmt.Println(out)
		return nil
	},
}

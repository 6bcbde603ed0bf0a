package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oarkflow/questdbsql"
)

var assistCmd = &cobra.Command{
	Use:   "assist <cursor> [sql|-]",
	Short: "Report next-valid-token kinds and scope at a cursor offset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cursor, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("cursor must be an integer byte offset: %w", err)
		}
		sql, err := readSQLArg(args[1:])
		if err != nil {
			return err
		}
		res := questdbsql.GetContentAssist(sql, cursor)
		fmt.Println("next tokens:")
		for _, k := range res.NextTokenKinds {
			fmt.Printf("  %s\n", k)
		}
		if res.QualifierTable != "" {
			fmt.Printf("qualifier: %s.\n", res.QualifierTable)
		}
		fmt.Println("scope:")
		for _, s := range res.Scope {
			fmt.Printf("  %s as %s\n", s.Table, s.Alias)
		}
		if len(res.CteColumns) > 0 {
			fmt.Println("cte columns:")
			for name, cols := range res.CteColumns {
				fmt.Printf("  %s:\n", name)
				for _, c := range cols {
					fmt.Printf("    %s\n", c.Name)
				}
			}
		}
		return nil
	},
}

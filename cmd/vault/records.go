package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/filevault/internal/workflow"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "records [id]",
		Short: "List extracted records, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid record id %q", args[0])
				}
				r, err := c.GetRecord(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderRecord(r))
				return nil
			}

			records, err := c.ListRecords(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, workflow.MsgNoRecords)
				return nil
			}
			fmt.Fprintln(out, renderRecords(records))
			return nil
		},
	}
}

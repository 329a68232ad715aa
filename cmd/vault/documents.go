package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/filevault/internal/client"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a PDF into quarantine and print its descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}

			f, err := client.OpenFile(args[0])
			if err != nil {
				return err
			}

			d, err := c.Upload(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderDescriptor(*d))
			return nil
		},
	}
}

func newApproveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <correlation-id>",
		Short: "Approve a quarantined document and print the extracted record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			a, err := c.Approve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !a.HasRecord() {
				fmt.Fprintf(out, "Document %s %s; no record id returned.\n", args[0], a.Status)
				return nil
			}

			r, err := c.GetRecord(cmd.Context(), a.RecordID)
			if err != nil {
				return fmt.Errorf("approved as record %d: %w", a.RecordID, err)
			}
			fmt.Fprintln(out, renderRecord(r))
			return nil
		},
	}
}

func newDiscardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <correlation-id>",
		Short: "Delete a quarantined document without approving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			if err := c.Discard(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Discarded %s.\n", args[0])
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shelf/internal/daemon"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status daemon.Status
			if err := ctx.client().get("/api/status", &status); err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, status)
			}
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			running := statusOK
			runningMsg := fmt.Sprintf("pid %d", status.PID)
			if !status.Running {
				running = statusError
				runningMsg = ""
			}
			fmt.Fprintln(out, renderStatusLine("Daemon", running, runningMsg, colorize))
			fmt.Fprintln(out, renderStatusLine("Staging DB", statusInfo, status.StagingDB, colorize))
			fmt.Fprintln(out, renderStatusLine("Production DB", statusInfo, status.ProductionDB, colorize))
			fmt.Fprintln(out, renderStatusLine("Rejection DB", statusInfo, status.RejectionDB, colorize))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit status as JSON")
	return cmd
}

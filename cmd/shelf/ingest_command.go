package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelf/internal/media"
	"shelf/internal/pipeline"
)

type ingestPayload struct {
	Type string `json:"type"`
}

type ingestReply struct {
	Results []pipeline.IngestResult `json:"results"`
}

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ingest [type]",
		Short: "Scan staging directories and extract metadata for new files",
		Long: "Runs the ingestion pipeline for one media type, or for every type " +
			"when the argument is omitted or \"all\". Valid types: " +
			strings.Join(typeNames(), ", ") + ".",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requested := "all"
			if len(args) == 1 {
				requested = strings.ToLower(strings.TrimSpace(args[0]))
			}
			if requested != "all" && !validTypeName(requested) {
				return fmt.Errorf("unknown media type %q (valid: all, %s)", requested, strings.Join(typeNames(), ", "))
			}

			var reply ingestReply
			if err := ctx.client().post("/api/ingest", ingestPayload{Type: requested}, &reply); err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, reply)
			}

			rows := make([][]string, 0, len(reply.Results))
			for _, res := range reply.Results {
				rows = append(rows, []string{
					string(res.Type),
					strconv.Itoa(res.Scanned),
					strconv.Itoa(res.Fresh),
					strconv.Itoa(res.Extracted),
					strconv.Itoa(res.Indexed),
				})
			}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd, []string{"Type", "Scanned", "Fresh", "Extracted", "Indexed"}, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	return cmd
}

func typeNames() []string {
	types := media.Types()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return names
}

func validTypeName(name string) bool {
	for _, t := range media.Types() {
		if string(t) == name {
			return true
		}
	}
	return false
}

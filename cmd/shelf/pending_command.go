package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelf/internal/media"
	"shelf/internal/validation"
)

func newPendingCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var outputPath string

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Show staged records awaiting validation",
		Long: "Fetches the current validation request from the daemon. Use " +
			"--output to save it as JSON, edit the records, then submit the " +
			"file with `shelf accept` or `shelf reject`.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var request validation.Request
			if err := ctx.client().get("/api/pending", &request); err != nil {
				return err
			}

			if outputPath != "" {
				data, err := json.MarshalIndent(request, "", "  ")
				if err != nil {
					return fmt.Errorf("encode request: %w", err)
				}
				if err := os.WriteFile(outputPath, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", outputPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote validation request %s to %s\n", request.ID, outputPath)
				return nil
			}

			if jsonOutput {
				return writeJSON(cmd, request)
			}

			out := cmd.OutOrStdout()
			if request.IsEmpty() {
				fmt.Fprintln(out, "No records awaiting validation")
				return nil
			}

			fmt.Fprintf(out, "Validation request %s\n", request.ID)
			for _, table := range tableOrder(request.Tables) {
				records := request.Tables[table]
				if len(records) == 0 {
					continue
				}
				fmt.Fprintf(out, "\n%s (%d)\n", table, len(records))
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						filepath.Base(rec.SourcePath),
						displayTitle(rec),
						displayInt(rec.ReleaseYear),
						displaySeasonEpisode(rec.SeasonNumber, rec.EpisodeNumber),
						displayString(rec.Artist),
						strings.Join(rec.UnknownFields(), ", "),
					})
				}
				headers := []string{"File", "Title", "Year", "S/E", "Artist", "Missing"}
				fmt.Fprintln(out, renderTable(cmd, headers, rows, nil))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the validation request as JSON")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the validation request to a file for editing")
	return cmd
}

// tableOrder keeps table sections in the fixed variant order.
func tableOrder(tables map[string][]validation.Record) []string {
	ordered := make([]string, 0, len(tables))
	for _, t := range media.Types() {
		name := media.DescriptorFor(t).Table
		if _, ok := tables[name]; ok {
			ordered = append(ordered, name)
		}
	}
	for name := range tables {
		if !slices.Contains(ordered, name) {
			ordered = append(ordered, name)
		}
	}
	return ordered
}

func displayTitle(rec validation.Record) string {
	if strings.TrimSpace(rec.Title) != "" {
		return rec.Title
	}
	if rec.SuggestedTitle != "" {
		return rec.SuggestedTitle + " (suggested)"
	}
	return "?"
}

func displayInt(value *int) string {
	if value == nil {
		return "?"
	}
	return strconv.Itoa(*value)
}

func displayString(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return ""
	}
	return *value
}

func displaySeasonEpisode(season, episode *int) string {
	if season == nil && episode == nil {
		return ""
	}
	return fmt.Sprintf("%sx%s", displayInt(season), displayInt(episode))
}

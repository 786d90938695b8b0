package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shelf/internal/validation"
)

type resolveReply struct {
	Outcome string `json:"outcome"`
	Records int    `json:"records"`
}

func newAcceptCommand(ctx *commandContext) *cobra.Command {
	return newResolveCommand(ctx, "accept", "/api/accepted",
		"Accept a validation response and promote its records to production")
}

func newRejectCommand(ctx *commandContext) *cobra.Command {
	return newResolveCommand(ctx, "reject", "/api/rejected",
		"Reject a validation response and move its records to the rejection zone")
}

func newResolveCommand(ctx *commandContext, verb, path, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <response.json>",
		Short: short,
		Long: short + ". The argument is a validation request saved with " +
			"`shelf pending --output`, possibly edited; every record must have " +
			"all fields filled in and keep its original sourcePath.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			response, err := readResponseFile(args[0])
			if err != nil {
				return err
			}

			var reply resolveReply
			if err := ctx.client().post(path, response, &reply); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d record(s) %s\n", reply.Records, reply.Outcome)
			return nil
		},
	}
}

func readResponseFile(path string) (*validation.Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read response file: %w", err)
	}
	var response validation.Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("parse response file %s: %w", path, err)
	}
	if len(response.Tables) == 0 {
		return nil, fmt.Errorf("response file %s holds no tables", path)
	}
	return &response, nil
}

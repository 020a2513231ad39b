package main

import (
	"context"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

type sweepOutput struct {
	Expired  int `json:"expired"`
	Promoted int `json:"promoted"`
	Failed   int `json:"failed"`
}

func newSweepCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one expiry sweep and print what it did",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.sweep(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) sweep(ctx context.Context, out io.Writer) error {
	rt, err := buildRuntime(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer rt.shutdown(context.WithoutCancel(ctx))

	result, err := rt.service.RunExpirySweep(ctx)
	if err != nil {
		return fmt.Errorf("expiry sweep: %w", err)
	}

	return writeSweepOutput(out, sweepOutput{
		Expired:  result.ExpiredCount,
		Promoted: result.PromotedCount,
		Failed:   result.FailedCount,
	})
}

func writeSweepOutput(out io.Writer, output sweepOutput) error {
	encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(output)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(encoded))

	return err
}

package cmd

import (
	"context"
	"fmt"

	recordsadapter "github.com/bnema/queuewatch/internal/adapters/render/records"
	"github.com/bnema/queuewatch/internal/application"
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

func newRecordsCmd(app *app) *cobra.Command {
	var asJSON bool
	var limit int

	cmd := &cobra.Command{
		Use:   "records",
		Short: "Summarize recorded queue sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("limit must not be negative, got %d", limit)
			}

			var summaries []application.RecordSummary
			load := func(ctx context.Context) (int, error) {
				store, closeStore, err := app.openRecordStore(ctx)
				defer closeStore()
				if err != nil {
					return 0, err
				}

				summaries, err = application.NewRecordService(store).Summaries(ctx)
				return len(summaries), err
			}

			if asJSON {
				if _, err := load(cmd.Context()); err != nil {
					return err
				}
				return writeRecordsJSON(cmd, summaries, limit)
			}

			if err := runRecordLoader(cmd.Context(), cmd.ErrOrStderr(), "queue records", load); err != nil {
				return err
			}

			rendered, err := app.recordRenderer(summaries, recordsadapter.RenderOptions{
				Now:   app.now(),
				Limit: limit,
			})
			if err != nil {
				return fmt.Errorf("render records: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output summaries as JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the most recent N records (0 shows all)")

	return cmd
}

func writeRecordsJSON(cmd *cobra.Command, summaries []application.RecordSummary, limit int) error {
	if summaries == nil {
		summaries = []application.RecordSummary{}
	}
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[len(summaries)-limit:]
	}

	data, err := sonic.ConfigStd.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

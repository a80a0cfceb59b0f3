package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewHydrateCommand creates the hydrate command.
func NewHydrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hydrate <kind:id>...",
		Short: "Fetch engagement for entities",
		Long: `Fetch engagement for entities, in parallel.

Example:
  engagement hydrate post:1 post:2 comment:7`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := parseRefs(args)
			if err != nil {
				return err
			}

			engine, err := newEngine(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var (
				records []recordOutput
				failed  int
			)
			for res := range engine.Hydrate(cmd.Context(), refs) {
				if res.Err != nil {
					failed++
				}
				records = append(records, newRecordOutput(res.Ref, res.Record, res.Err))
			}
			// completion order is arbitrary
			sort.Slice(records, func(i, j int) bool { return records[i].Entity < records[j].Entity })

			if err := writeRecords(cmd.OutOrStdout(), rootOpts.Format, records); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d entities failed to load", failed, len(refs))
			}
			return nil
		},
	}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"Agora/internal/core/engagement"
)

// NewToggleCommand creates the like or dislike command.
func NewToggleCommand(rootOpts *RootOptions, target engagement.Target) *cobra.Command {
	return &cobra.Command{
		Use:   target.String() + " <kind:id>",
		Short: fmt.Sprintf("Toggle a %s on an entity", target),
		Long: fmt.Sprintf(`Toggle a %[1]s on an entity.

The entity is loaded first, then the %[1]s is toggled: pressing it on an
entity the viewer already %[1]sd clears it.

Example:
  engagement %[1]s post:42 --token $AGORA_TOKEN`, target),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := engagement.ParseEntityRef(args[0])
			if err != nil {
				return err
			}

			engine, err := newEngine(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			for res := range engine.Hydrate(cmd.Context(), []engagement.EntityRef{ref}) {
				if res.Err != nil {
					return res.Err
				}
			}

			rec, err := engine.Toggle(cmd.Context(), ref, target)
			if errors.Is(err, engagement.ErrUnauthenticated) {
				return errors.New(engine.Notification())
			}
			if err != nil {
				return err
			}

			return writeRecords(cmd.OutOrStdout(), rootOpts.Format, []recordOutput{newRecordOutput(ref, rec, nil)})
		},
	}
}

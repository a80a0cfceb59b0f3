package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"Agora/internal/auth"
	"Agora/internal/core/engagement"
	"Agora/internal/remote"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIURL  string
	Token   string
	Format  string // "json" | "text"
	Verbose bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the engagement tool.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "engagement",
		Short: "Inspect and toggle reactions on posts and comments",
		Long: `Inspect and toggle reactions on posts and comments.

Entities are written as kind:id, e.g. post:42 or comment:7.
The token may also be supplied through AGORA_TOKEN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", "", "reaction service URL (default $REACTIONS_API_URL or http://localhost:3001)")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv("AGORA_TOKEN"), "bearer token of the viewer")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log protocol steps to stderr")

	cmd.AddCommand(NewHydrateCommand(opts))
	cmd.AddCommand(NewToggleCommand(opts, engagement.TargetLike))
	cmd.AddCommand(NewToggleCommand(opts, engagement.TargetDislike))

	return cmd
}

// newEngine wires a session, the HTTP client and the engine from opts
func newEngine(opts *RootOptions, stderr io.Writer) (*engagement.Engine, error) {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	session := auth.NewSession()
	if opts.Token != "" {
		if err := session.SetToken(opts.Token); err != nil {
			return nil, fmt.Errorf("invalid --token: %w", err)
		}
	}

	remoteCfg := remote.ConfigFromEnv()
	if opts.APIURL != "" {
		remoteCfg.BaseURL = opts.APIURL
	}
	client, err := remote.NewClient(remoteCfg, session, logger)
	if err != nil {
		return nil, err
	}

	return engagement.NewEngine(client, session, engagement.ConfigFromEnv(), logger)
}

// parseRefs parses kind:id arguments
func parseRefs(args []string) ([]engagement.EntityRef, error) {
	refs := make([]engagement.EntityRef, 0, len(args))
	for _, arg := range args {
		ref, err := engagement.ParseEntityRef(arg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

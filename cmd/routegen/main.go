// routegen compiles declarative JSON route specifications into TypeScript
// route modules and keeps the application's aggregator file wired to them
// without hand edits.
//
// Invoked with no arguments it runs the generate workflow; --clean (or
// --reset) deletes the generated modules and reverses the aggregator edits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/routegen/internal/builder"
	"github.com/matthewbaird/routegen/internal/config"
	"github.com/matthewbaird/routegen/internal/logging"
)

var (
	cfgFile   string
	cleanFlag bool
	resetFlag bool
	watchFlag bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "routegen: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "routegen",
		Short: "Compile route specs into TypeScript route modules",
		Long: `routegen reads JSON route specifications from the specs directory,
emits one Elysia route module per module/version pair, and keeps the
aggregator file's imports and .use() registrations in sync.

Specs are processed strictly one at a time; run a single instance of
routegen against a given aggregator file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := newBuilder()
			if err != nil {
				return err
			}
			if cleanFlag || resetFlag {
				return b.Clean()
			}
			if watchFlag {
				return runWatch(b)
			}
			return b.Generate()
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default routegen.yaml in the working directory)")
	root.Flags().BoolVar(&cleanFlag, "clean", false, "delete generated modules and reverse the aggregator edits")
	root.Flags().BoolVar(&resetFlag, "reset", false, "alias for --clean")
	root.Flags().BoolVar(&watchFlag, "watch", false, "regenerate when spec files change")

	root.AddCommand(newGenerateCmd(), newCleanCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate route modules from the specs directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := newBuilder()
			if err != nil {
				return err
			}
			if watchFlag {
				return runWatch(b)
			}
			return b.Generate()
		},
	}
	cmd.Flags().BoolVar(&watchFlag, "watch", false, "regenerate when spec files change")
	return cmd
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete generated modules and reverse the aggregator edits",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := newBuilder()
			if err != nil {
				return err
			}
			return b.Clean()
		},
	}
}

func newBuilder() (*builder.Builder, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logging.Init(cfg.Verbose)
	return builder.New(cfg), nil
}

func runWatch(b *builder.Builder) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return b.Watch(ctx)
}

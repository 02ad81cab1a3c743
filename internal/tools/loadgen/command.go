package loadgen

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/restofleet/pos-admin-api/internal/tools/common"
	"github.com/restofleet/pos-admin-api/internal/tools/ui"
)

var profileHelp = map[string]string{
	"mixed":       "health probes, rejected logins and unauthorized list calls",
	"auth":        "rejected login attempts only",
	"error-heavy": "mostly 4xx traffic for error-path dashboards",
	"health":      "liveness and readiness probes only",
}

type options struct {
	baseURL     string
	profile     string
	duration    time.Duration
	rps         int
	concurrency int
	seed        int64
	ci          bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "loadgen", Short: "Generate traffic for observability validation"}
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "API base URL")
	cmd.PersistentFlags().StringVar(&opts.profile, "profile", "mixed", "traffic profile: health|auth|mixed|error-heavy")
	cmd.PersistentFlags().DurationVar(&opts.duration, "duration", 15*time.Second, "traffic duration")
	cmd.PersistentFlags().IntVar(&opts.rps, "rps", 20, "requests per second")
	cmd.PersistentFlags().IntVar(&opts.concurrency, "concurrency", 6, "concurrent workers")
	cmd.PersistentFlags().Int64Var(&opts.seed, "seed", 42, "random seed")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newRunCommand(opts), newProfilesCommand())
	return cmd
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run load generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "loadgen run", func(ctx context.Context) ([]string, error) {
				res, err := Run(ctx, Config{
					BaseURL:     opts.baseURL,
					Profile:     opts.profile,
					Duration:    opts.duration,
					RPS:         opts.rps,
					Concurrency: opts.concurrency,
					Seed:        opts.seed,
				})
				if err != nil {
					return nil, err
				}
				return res.summaryLines(), nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "loadgen run", details, err)
			}
			if err != nil {
				os.Exit(4)
			}
			return nil
		},
	}
}

func newProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List available traffic profiles",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range []string{"mixed", "auth", "error-heavy", "health"} {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", name, profileHelp[name])
			}
		},
	}
}

func (r Result) summaryLines() []string {
	return []string{
		fmt.Sprintf("total_requests=%d", r.TotalRequests),
		fmt.Sprintf("failures=%d", r.Failures),
		fmt.Sprintf("status_2xx=%d", r.Status2xx),
		fmt.Sprintf("status_4xx=%d", r.Status4xx),
		fmt.Sprintf("status_5xx=%d", r.Status5xx),
	}
}

func run(opts *options, title string, fn func(context.Context) ([]string, error)) ([]string, error) {
	if opts.ci {
		ctx, cancel := context.WithTimeout(context.Background(), opts.duration+15*time.Second)
		defer cancel()
		return fn(ctx)
	}
	return ui.Run(title, fn)
}

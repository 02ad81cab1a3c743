package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/restofleet/pos-admin-api/internal/config"
	"github.com/restofleet/pos-admin-api/internal/database"
	"github.com/restofleet/pos-admin-api/internal/permissions"
	"github.com/restofleet/pos-admin-api/internal/security"
	"github.com/restofleet/pos-admin-api/internal/tools/common"
	"github.com/restofleet/pos-admin-api/internal/tools/ui"
)

type options struct {
	envFile    string
	adminEmail string
	ci         bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Database seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().StringVar(&opts.adminEmail, "admin-email", "", "override bootstrap admin email")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Reconcile permissions, roles, and the bootstrap admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "seed apply", func(ctx context.Context) ([]string, error) {
				cfg, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				if err := database.Migrate(db); err != nil {
					return nil, err
				}
				email := cfg.BootstrapAdminEmail
				if opts.adminEmail != "" {
					email = opts.adminEmail
				}
				passwordHash := ""
				if cfg.BootstrapAdminPassword != "" {
					if passwordHash, err = security.HashPassword(cfg.BootstrapAdminPassword); err != nil {
						return nil, err
					}
				}
				report, err := database.Seed(db, email, passwordHash)
				if err != nil {
					return nil, err
				}
				if report.Noop {
					return []string{"database already seeded, nothing to do"}, nil
				}
				details := []string{
					fmt.Sprintf("created %d permissions", report.CreatedPermissions),
					fmt.Sprintf("created %d roles", report.CreatedRoles),
					fmt.Sprintf("bound %d role permissions", report.BoundPermissions),
				}
				if report.CreatedUsers > 0 {
					details = append(details, "created bootstrap admin: "+email)
				}
				return details, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "seed apply", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "seed dry-run", func(ctx context.Context) ([]string, error) {
				cfg, _, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				email := cfg.BootstrapAdminEmail
				if opts.adminEmail != "" {
					email = opts.adminEmail
				}
				details := []string{
					fmt.Sprintf("would ensure %d permissions across %d modules", len(permissions.All()), len(permissions.Registry)),
					"would ensure roles: ADMIN, STAFF",
					"would bind every permission to ADMIN and read permissions to STAFF",
				}
				if email != "" {
					details = append(details, "would create bootstrap admin if missing: "+email)
				}
				return details, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "seed dry-run", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func run(opts *options, title string, fn func(context.Context) ([]string, error)) ([]string, error) {
	if opts.ci {
		return fn(context.Background())
	}
	return ui.Run(title, fn)
}

func loadConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

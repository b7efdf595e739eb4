package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/velocity-exotics/crm-platform/pkg/composables"
	"github.com/velocity-exotics/crm-platform/pkg/configuration"
	"github.com/velocity-exotics/crm-platform/pkg/types"
)

var (
	flagTenant string
	flagUser   string
)

func main() {
	root := &cobra.Command{
		Use:           "crm-data",
		Short:         "Import and export tooling for the Velocity CRM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagTenant, "tenant", "", "tenant id (uuid, required)")
	root.PersistentFlags().StringVar(&flagUser, "user", "cli@velocity.local", "acting user email")

	root.AddCommand(importCmd())
	root.AddCommand(exportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// cliContext builds the context every repository call expects: pool, tenant
// and an admin-role acting user.
func cliContext(ctx context.Context, pool *pgxpool.Pool) (context.Context, error) {
	tenantID, err := uuid.Parse(flagTenant)
	if err != nil {
		return nil, withCode(fmt.Errorf("--tenant must be a uuid: %w", err), ExitUsage)
	}

	ctx = composables.WithPool(ctx, pool)
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithUser(ctx, types.User{
		ID:    uuid.New(),
		Email: flagUser,
		Role:  types.RoleAdmin,
	})
	return ctx, nil
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	conf := configuration.Use()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, withCode(fmt.Errorf("create database pool: %w", err), ExitUnavailable)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, withCode(fmt.Errorf("database unreachable: %w", err), ExitUnavailable)
	}
	return pool, nil
}

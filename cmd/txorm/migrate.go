package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Darisishe/txorm"
	"github.com/Darisishe/txorm/schema"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables for every registered record type",
	Long: `migrate walks every schema registered via schema.Register or a
Basic[T]'s first use and ensures its table exists, creating it if not.
It is idempotent: running it again against an already-migrated database
is a no-op.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	schemas := schema.Registered()
	if len(schemas) == 0 {
		fmt.Println("no schemas registered; nothing to do")
		return nil
	}

	conn, err := txorm.Open(dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := context.Background()
	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}

	for _, s := range schemas {
		if err := txorm.EnsureTable(ctx, tx, s); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("ensure table %q: %w", s.TableName, err)
		}
		fmt.Printf("ensured table %q\n", s.TableName)
	}

	return tx.Commit(ctx)
}

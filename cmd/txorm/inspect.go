package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Darisishe/txorm/storage/sqlite"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List tables and row counts in the database file",
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	db, err := sqlite.Dial(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tables, err := listTables(context.Background(), db)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		fmt.Println("no tables")
		return nil
	}

	for _, name := range tables {
		count, err := rowCount(context.Background(), db, name)
		if err != nil {
			return fmt.Errorf("count %q: %w", name, err)
		}
		fmt.Printf("%-32s %d rows\n", name, count)
	}
	return nil
}

func listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func rowCount(ctx context.Context, db *sql.DB, table string) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q`, table)).Scan(&n)
	return n, err
}

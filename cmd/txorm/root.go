// Command txorm is a small operational CLI around the txorm library: it
// opens a Connection against a SQLite file and runs one-shot table
// maintenance commands, without requiring a caller to write Go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Darisishe/txorm/config"
	"github.com/Darisishe/txorm/logger"
)

var (
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:     "txorm",
	Short:   "txorm maintenance CLI",
	Long:    "txorm is a transaction-scoped object-relational mapping library; this CLI drives its migrate and inspect operations against a SQLite file.",
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			return logger.Init(config.Logger{Level: "debug", Format: "console"})
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "txorm.db", "path to the SQLite database file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(migrateCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// main is the entry point for the todo API
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "todo-api",
	Short: "Todo API - create, track and search todo items",
	Long: `todo-api serves a REST API over todo items stored in SurrealDB.

Configuration is read from the environment, and from a .env file in the
working directory when one exists.

Examples:
  # Create the schema, then start the HTTP server
  todo-api migrate
  todo-api run

  # Write the OpenAPI document without a database
  todo-api openapi-gen -o openapi.json`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newOpenAPIGenCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

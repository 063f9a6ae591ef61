// Package commands defines the datacleaner CLI.
//
// Commands
//
//   - inspect   Print the per-column missing-value summary of a dataset
//   - clean     Apply strategies and row removals, then export the result
//   - serve     Run the HTTP API over isolated cleaning sessions
//
// Datasets come from a CSV or XLSX file argument, or from a database table
// selected with --pg-table or --sf-table. The root command loads .env,
// reads configuration from the environment and builds the logger before
// any subcommand runs.
package commands

// Package cmd implements the bookspec CLI commands using Cobra.
//
// Available commands:
//   - run: Execute book store scenarios
//   - list: Display the available scenarios
//   - validate: Check a JSON document against the book list schema
//   - mock: Serve the book store endpoints locally
//   - init: Write a starter configuration file
//   - version: Show bookspec version information
package cmd

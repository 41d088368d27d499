package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/abdul-hamid-achik/bookspec/packages/assertions"
	"github.com/abdul-hamid-achik/bookspec/packages/schemas"
	"github.com/spf13/cobra"
)

var validateSchemaFlag string

var validateCmd = &cobra.Command{
	Use:   "validate <document.json>...",
	Short: "Validate JSON documents against the book list schema",
	Long: `Validate saved response bodies against a JSON Schema without sending
any request. The embedded booklist_response.json schema is used unless
--schema names another embedded schema or points at a file.

Embedded schemas: ` + strings.Join(schemas.Names(), ", ") + `

Examples:
  bookspec validate books.json
  bookspec validate --schema my_schema.json books.json other.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFlag, "schema", "s", "", "Embedded schema name or path to a JSON Schema file (default: "+schemas.BookList+")")
}

func loadValidateSchema() ([]byte, error) {
	if validateSchemaFlag == "" {
		return schemas.Load(schemas.BookList)
	}
	if slices.Contains(schemas.Names(), validateSchemaFlag) {
		return schemas.Load(validateSchemaFlag)
	}
	data, err := os.ReadFile(validateSchemaFlag)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w (embedded schemas: %s)", err, strings.Join(schemas.Names(), ", "))
	}
	return data, nil
}

func validateCommand(cmd *cobra.Command, args []string) error {
	schema, err := loadValidateSchema()
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	hasErrors := false
	for _, file := range args {
		doc, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}

		problems, err := assertions.ValidateDocument(schema, doc)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}

		if len(problems) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Invalid: %s\n", file)
			for _, p := range problems {
				fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
			}
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return withExitCode(ExitSchemaError, fmt.Errorf("validation failed"))
	}

	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/bookspec/packages/core/config"
	"github.com/abdul-hamid-achik/bookspec/packages/core/env"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a bookspec configuration",
	Long: `Initialize bookspec in the current directory.

This creates:
  - bookspec.yaml  - Configuration file with the default settings
  - .env           - Credentials for the token scenarios

Examples:
  bookspec init
  bookspec init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const envTemplate = `# Account used by the token scenarios
BOOKSPEC_USERNAME=alex
BOOKSPEC_PASSWORD="W1_#zqwerty"

# Point the scenarios at a local mock (bookspec mock)
# BOOKSPEC_BASE_URL=http://localhost:3000
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, "bookspec.yaml")
	envFile := filepath.Join(cwd, env.DefaultFile)

	if !forceInit {
		for _, f := range []string{configFile, envFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.FollowRedirects = config.BoolPtr(true)
	cfg.ValidateSSL = config.BoolPtr(true)
	cfg.Headers = map[string]string{"User-Agent": "bookspec/" + version}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(envFile, []byte(envTemplate), 0600); err != nil {
		return fmt.Errorf("failed to create env file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", envFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nbookspec initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'bookspec run' to execute every scenario.\n")

	return nil
}

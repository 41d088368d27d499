package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/bookspec/packages/mock"
	"github.com/spf13/cobra"
)

var (
	mockPortFlag     int
	mockDelayFlag    string
	mockVerboseFlag  bool
	mockUserFlag     string
	mockPasswordFlag string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Start a local book store server",
	Long: `Start an HTTP server answering the two endpoints the scenarios use, so
they can run without reaching the public demo host.

The mock server:
- Serves GET /BookStore/v1/Books from a built-in catalog
- Issues tokens on POST /Account/v1/GenerateToken for the configured user
- Can add artificial delays to simulate network latency

Examples:
  bookspec mock
  bookspec mock --port 3000 --delay 100ms
  bookspec mock --user jane --password secret --verbose
  bookspec run --base-url http://localhost:3000`,
	Args: cobra.NoArgs,
	RunE: mockCommand,
}

func init() {
	mockCmd.Flags().IntVarP(&mockPortFlag, "port", "p", 3000, "Port to run the mock server on")
	mockCmd.Flags().StringVarP(&mockDelayFlag, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	mockCmd.Flags().BoolVarP(&mockVerboseFlag, "verbose", "v", false, "Enable verbose logging")
	mockCmd.Flags().StringVar(&mockUserFlag, "user", mock.DefaultUser, "User name accepted by the token endpoint")
	mockCmd.Flags().StringVar(&mockPasswordFlag, "password", mock.DefaultPassword, "Password accepted by the token endpoint")
}

func mockCommand(cmd *cobra.Command, args []string) error {
	// Parse delay
	var delay time.Duration
	if mockDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(mockDelayFlag)
		if err != nil {
			return fmt.Errorf("invalid delay value %q: %w", mockDelayFlag, err)
		}
	}

	server := mock.NewServer(
		mock.WithPort(mockPortFlag),
		mock.WithDelay(delay),
		mock.WithVerbose(mockVerboseFlag),
		mock.WithUser(mockUserFlag, mockPasswordFlag),
	)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down mock server...")
		cancel()
	}()

	return server.StartWithContext(ctx)
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/bookspec/packages/core/config"
	"github.com/abdul-hamid-achik/bookspec/packages/core/env"
	"github.com/abdul-hamid-achik/bookspec/packages/core/runner"
	"github.com/abdul-hamid-achik/bookspec/packages/logfilter"
	"github.com/abdul-hamid-achik/bookspec/packages/output"
	"github.com/abdul-hamid-achik/bookspec/packages/scenarios"
	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario...]",
	Short: "Run book store scenarios",
	Long: `Run the named scenarios, or all of them when none are given.

Settings come from bookspec.yaml/.bookspec.json (or --config), then
BOOKSPEC_* environment variables (a .env file is loaded first), then flags.

Examples:
  bookspec run
  bookspec run with-model books-json-schema
  bookspec run --tags schema,model --log-template all
  bookspec run --name "with-*" --bail
  bookspec run books-model --repeat 20 --rate-limit 5
  bookspec run --base-url http://localhost:3000 --report-dir ./bookspec-results
  bookspec run -o junit --output-file results.xml`,
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	configFlag      string
	envFileFlag     string
	baseURLFlag     string
	nameFlag        string
	tagsFlag        string
	verboseFlag     bool
	quietFlag       bool
	noColorFlag     bool
	outputFlag      string
	outputFileFlag  string
	bailFlag        bool
	timeoutFlag     string
	repeatFlag      int
	rateLimitFlag   float64
	logTemplateFlag string
	reportDirFlag   string
	proxyFlag       string
	insecureFlag    bool
	userFlag        string
	passwordFlag    string
	watchFlag       bool
)

func init() {
	lookup := env.OS()
	p := env.Prefix

	// Core flags
	runCmd.Flags().StringVar(&configFlag, "config", env.String(lookup, p+"CONFIG", ""), "Path to config file (env: BOOKSPEC_CONFIG)")
	runCmd.Flags().StringVar(&envFileFlag, "env-file", env.String(lookup, p+"ENV_FILE", env.DefaultFile), "Path to .env file exported before reading BOOKSPEC_* variables (env: BOOKSPEC_ENV_FILE)")
	runCmd.Flags().StringVar(&baseURLFlag, "base-url", "", "Book store base URL (default https://demoqa.com) (env: BOOKSPEC_BASE_URL)")
	runCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only scenarios matching name pattern (e.g. \"with-*\")")
	runCmd.Flags().StringVarP(&tagsFlag, "tags", "t", env.String(lookup, p+"TAGS", ""), "Run only scenarios with specified tags (comma-separated) (env: BOOKSPEC_TAGS)")
	runCmd.Flags().StringVarP(&userFlag, "username", "u", "", "Account user name (env: BOOKSPEC_USERNAME)")
	runCmd.Flags().StringVar(&passwordFlag, "password", "", "Account password (env: BOOKSPEC_PASSWORD)")

	// Output flags
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output (env: BOOKSPEC_VERBOSE)")
	runCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", env.Bool(lookup, p+"QUIET", false), "Suppress request/response logs (env: BOOKSPEC_QUIET)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: BOOKSPEC_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", env.String(lookup, p+"OUTPUT", "console"), "Output format: "+strings.Join(output.Formats, ", ")+" (env: BOOKSPEC_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", env.String(lookup, p+"OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: BOOKSPEC_OUTPUT_FILE)")
	runCmd.Flags().StringVarP(&logTemplateFlag, "log-template", "l", "", "Log template: "+strings.Join(logfilter.TemplateNames(), ", ")+", or parts like uri+body (env: BOOKSPEC_LOG_TEMPLATE)")
	runCmd.Flags().StringVar(&reportDirFlag, "report-dir", "", "Write per-scenario result files to this directory (env: BOOKSPEC_REPORT_DIR)")

	// Execution flags
	runCmd.Flags().BoolVar(&bailFlag, "bail", false, "Stop on first failure (env: BOOKSPEC_BAIL)")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "Request timeout, e.g. 30s, 1m (default 30s) (env: BOOKSPEC_TIMEOUT in ms)")
	runCmd.Flags().IntVar(&repeatFlag, "repeat", 0, "Run each scenario N times and report latency percentiles (env: BOOKSPEC_REPEAT)")
	runCmd.Flags().Float64Var(&rateLimitFlag, "rate-limit", 0, "Maximum requests per second, 0 for unlimited (env: BOOKSPEC_RATE_LIMIT)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch config and .env files for changes and re-run")

	// Network flags
	runCmd.Flags().StringVar(&proxyFlag, "proxy", "", "Proxy URL for HTTP requests (env: BOOKSPEC_PROXY)")
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "Disable SSL certificate validation (env: BOOKSPEC_INSECURE)")
}

// flagConfig collects the settings given on the command line. Unset flags
// leave their fields empty so Merge keeps the file and environment values.
func flagConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	c := &config.Config{
		BaseURL:     baseURLFlag,
		Proxy:       proxyFlag,
		RateLimit:   rateLimitFlag,
		UserName:    userFlag,
		Password:    passwordFlag,
		LogTemplate: logTemplateFlag,
		ReportDir:   reportDirFlag,
		Repeat:      repeatFlag,
	}

	if flags.Changed("timeout") {
		timeout, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", timeoutFlag, err)
		}
		c.Timeout = int(timeout.Milliseconds())
	}
	if flags.Changed("bail") {
		c.Bail = config.BoolPtr(bailFlag)
	}
	if flags.Changed("insecure") {
		c.ValidateSSL = config.BoolPtr(!insecureFlag)
	}
	if flags.Changed("verbose") {
		c.Verbose = config.BoolPtr(verboseFlag)
	}
	if flags.Changed("no-color") {
		c.NoColor = config.BoolPtr(noColorFlag)
	}

	return c, nil
}

// loadSettings layers defaults, the config file, the environment and flags.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	if _, err := env.LoadOptional(envFileFlag); err != nil {
		return nil, fmt.Errorf("loading %s: %w", envFileFlag, err)
	}

	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flagCfg, err := flagConfig(cmd)
	if err != nil {
		return nil, err
	}

	cfg := fileConfig.ApplyEnv(env.OS()).Merge(flagCfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := runOnce(ctx, cmd, args)
	if !watchFlag {
		if err != nil || code != ExitSuccess {
			return withExitCode(code, err)
		}
		return nil
	}

	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return watchAndRerun(ctx, cmd, args)
}

// runOnce loads settings, runs the selected scenarios and writes the
// results. It returns the exit code the run deserves.
func runOnce(ctx context.Context, cmd *cobra.Command, args []string) (int, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return ExitConfigError, err
	}

	tmpl, err := logfilter.ParseTemplate(cfg.LogTemplate)
	if err != nil {
		return ExitConfigError, err
	}

	list, err := scenarios.Select(args...)
	if err != nil {
		return ExitUsageError, err
	}

	// Setup output writer
	out := cmd.OutOrStdout()
	toFile := outputFileFlag != ""
	if toFile {
		f, err := os.Create(outputFileFlag)
		if err != nil {
			return ExitConfigError, fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	format := strings.ToLower(outputFlag)
	color.NoColor = cfg.GetNoColor() || toFile || !isTerminal(os.Stdout)

	formatter, err := output.New(format, out, cfg.GetVerbose())
	if err != nil {
		return ExitUsageError, err
	}

	// Logs share stdout only with console output.
	var logWriter io.Writer
	logColor := !color.NoColor
	if !quietFlag {
		if format == "console" && !toFile {
			logWriter = cmd.OutOrStdout()
		} else {
			logWriter = cmd.ErrOrStderr()
			logColor = !cfg.GetNoColor() && isTerminal(os.Stderr)
		}
	}

	creds := cfg.Credentials()
	if creds.UserName == "" && creds.Password == "" {
		creds = scenarios.DefaultCredentials()
	}

	r := runner.NewRunner(&runner.Config{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.TimeoutDuration(),
		FollowRedirect: cfg.GetFollowRedirects(),
		Insecure:       !cfg.GetValidateSSL(),
		Proxy:          cfg.Proxy,
		Headers:        cfg.Headers,
		RateLimit:      cfg.RateLimit,
		Credentials:    creds,
		LogWriter:      logWriter,
		LogTemplate:    tmpl,
		Color:          logColor,
		Bail:           cfg.GetBail(),
		NameFilter:     nameFlag,
		TagsFilter:     splitList(tagsFlag),
		Repeat:         cfg.Repeat,
		ReportDir:      cfg.ReportDir,
	})

	formatter.FormatHeader(version)

	result, err := r.RunAll(ctx, list)
	if err != nil {
		formatter.FormatError(err)
		if result == nil {
			return ExitConfigError, err
		}
	}

	formatter.FormatResult(result)

	// Flush output for formatters that accumulate results
	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(result.Duration); err != nil {
			return ExitConfigError, fmt.Errorf("error writing output: %w", err)
		}
	}

	if err != nil {
		return ExitTestFailure, err
	}
	return exitCodeFor(result.Failed, result.Errored), nil
}

// watchTargets returns the files whose changes trigger a re-run.
func watchTargets() []string {
	var targets []string
	if configFlag != "" {
		targets = append(targets, configFlag)
	} else {
		targets = append(targets, config.ConfigFilenames...)
	}
	if envFileFlag != "" {
		targets = append(targets, envFileFlag)
	}

	for i, t := range targets {
		if abs, err := filepath.Abs(t); err == nil {
			targets[i] = abs
		}
	}
	return targets
}

func isWatched(name string, targets []string) bool {
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	for _, t := range targets {
		if t == name {
			return true
		}
	}
	return false
}

func watchAndRerun(ctx context.Context, cmd *cobra.Command, args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories so editors that replace files are still seen.
	targets := watchTargets()
	watchedDirs := make(map[string]bool)
	for _, t := range targets {
		dir := filepath.Dir(t)
		if watchedDirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to watch %s: %v\n", dir, err)
		}
		watchedDirs[dir] = true
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer
	rerun := make(chan string, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !isWatched(event.Name, targets) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case rerun <- name:
				default:
				}
			})

		case name := <-rerun:
			fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running scenarios...\n\n", name)
			if _, err := runOnce(ctx, cmd, args); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}

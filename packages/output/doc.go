// Package output provides formatters for displaying scenario results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: one testsuite per scenario, one testcase per assertion step
//   - TAP: Test Anything Protocol v13 with YAML diagnostics
//
// Each formatter implements the Formatter interface and can optionally
// implement Flushable for formats that accumulate results before output.
package output

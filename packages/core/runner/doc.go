// Package runner executes bookspec scenarios and collects their results.
//
// It provides functionality for:
//   - Running scenarios in order, one at a time
//   - Filtering scenarios by name pattern and tag
//   - Stopping at the first failure (bail)
//   - Repeating scenarios and summarising their latency
//   - Writing per-scenario result files with recorded exchanges
package runner

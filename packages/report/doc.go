// Package report records HTTP exchanges made during a scenario and writes
// them, with the scenario outcome, to a results directory.
//
// The layout follows the allure-results convention: one
// <uuid>-result.json per scenario and one <uuid>-attachment.json per
// recorded exchange, referenced from the result by file name.
package report

// Package export writes output tables to files: CSV for spreadsheets and
// plotting scripts, Arrow IPC for columnar tools.
package export

// Package logging builds the slog loggers used by the amznas CLI: a pretty
// console handler for interactive use and a JSON handler for log files.
package logging

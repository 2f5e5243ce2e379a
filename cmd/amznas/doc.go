// Package main hosts the amznas CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into
// acquisition runs, display lookups, session inspection, and configuration
// scaffolding. It centralizes configuration resolution and structured logging
// setup so subcommands can focus on flag handling.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main

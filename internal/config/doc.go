// Package config loads, validates, and persists the amznas configuration
// file. Configuration is an explicit value passed to callers; nothing in this
// package mutates process-global state, and saving a changed default is an
// explicit, confirmed operation at the CLI boundary.
package config

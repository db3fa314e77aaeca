// Package builder invokes the fork's cargo build for a configured profile and
// verifies the expected artifact exists afterward.
package builder

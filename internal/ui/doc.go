// Package ui renders shell command lifecycle events as human-readable console output.
package ui

// Package launcher executes the fork's build artifact with inherited standard
// streams, building it first when absent, and propagates the child's exit code.
package launcher

// Package cli assembles the forksmith command hierarchy: status, sync, build,
// and run, sharing one configuration loader and structured logger.
package cli

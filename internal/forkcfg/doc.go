// Package forkcfg defines the configuration schema shared by the fork
// stewardship commands: where the vendored fork lives, which remotes and
// branches it tracks, and how its build artifact is produced.
package forkcfg

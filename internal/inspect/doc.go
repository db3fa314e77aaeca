// Package inspect computes point-in-time repository state snapshots for the
// vendored fork: current branch, head commit, worktree cleanliness, conflict
// markers, divergence against both tracked remotes, and artifact presence.
package inspect

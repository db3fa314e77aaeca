// Package syncer classifies the vendored fork's relationship to its two
// tracked remotes after fetching them and fast-forwards the local branch when
// that is the only change required. Divergence that cannot be resolved by
// fast-forward is reported, never auto-resolved.
package syncer

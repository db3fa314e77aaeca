// Package forkrepo contains the git capability layer for fork stewardship.
//
// RepositoryManager exposes the narrow set of read-only inspection queries and
// fast-forward-only mutations the control plane needs, implemented by shelling
// out to git through an injected executor.
package forkrepo

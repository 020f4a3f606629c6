// Package gitimg provides a small library for storing image assets in a
// commit-versioned content repository (such as the GitHub contents API) and
// serving them through stable raw-content URLs.
//
// It exposes a single Service interface with three operations — Store, List,
// and Remove — plus a directory bootstrap. Implementations of the backing
// ContentRepository (e.g., GitHub, memory) are provided under subpackages.
//
// The backing store is the single source of truth: the service holds no local
// state, and every call re-reads the repository. Uniqueness of asset paths is
// provided by a millisecond-timestamp filename prefix, not by an atomic
// create-if-absent primitive; see Service.Store for the consequences.
package gitimg

// Package registry holds the mapping from task kinds to their compiled-in
// Go handlers. Tool modules register themselves here at startup; the
// registry is then validated against the loaded configuration so that a
// task naming an unknown kind fails before anything runs.
package registry

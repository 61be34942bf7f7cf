// Package driving provides interfaces for the application's entry points
// (primary/inbound ports). CLI, TUI and watcher adapters drive the core
// through these interfaces.
package driving

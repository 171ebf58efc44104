// Package driving provides interfaces for application entrypoints
// (primary/inbound ports). The CLI and the assistant loop drive the
// core through these interfaces.
package driving

// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). The core services depend on these
// interfaces; concrete backends live under internal/adapters/driven.
package driven

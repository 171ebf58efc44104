// Package services implements the core business logic for the
// knowledge assistant: index lifecycle management, retrieval and
// answer synthesis, health diagnostics, document import, and the
// conversation loop. Services depend on driven ports for storage,
// embeddings and completion, and are driven through the interfaces
// in ports/driving.
package services

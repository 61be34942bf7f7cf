// Package services contains the core business logic, wired to storage,
// embedding and indexing through the driven ports.
package services

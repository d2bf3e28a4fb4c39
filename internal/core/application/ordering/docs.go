// Package ordering provides the application façade over the domain model.
//
// The Service type is the single entry point for every use case: account
// registration and login, order placement and lifecycle operations, delivery
// agent reconciliation, profile updates and the read models the adapters
// render. It owns the entire in-memory object graph, serializes access with
// one mutex, and persists a full snapshot through ports.SnapshotStore after
// every successful mutation.
package ordering

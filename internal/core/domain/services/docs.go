// Package services provides stateless domain services that compute over
// multiple aggregates without owning any state of their own.
//
// The package includes:
//   - ReportGenerator: aggregate restaurant statistics and item popularity
//     rankings over the full order list, for the manager view
//
// Domain services coordinate between aggregates, implementing logic that
// doesn't naturally belong to a single aggregate root.
package services

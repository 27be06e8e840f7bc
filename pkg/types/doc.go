// Package types defines the entity records, filter options, settings, the
// Store persistence contract, and the standard errors for partsbin.
//
// Every record kind shares the same shape: an opaque identifier assigned at
// creation, a creation timestamp, an optional last-modified timestamp, and
// kind-specific fields. JSON field names match the backup document format.
package types

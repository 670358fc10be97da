// Package records defines the four metric record kinds served by the backend
// and decodes their payloads.
//
// This package contains the row types, the payload envelope and the schema
// used to validate a payload before it reaches any computation. All other
// internal packages import records; records imports nothing internal.
//
// Key design constraints:
//   - JSON field names match the backend columns verbatim (Revenue_M, Date, ...)
//   - Summary objects are opaque and passed through as raw JSON
//   - Payloads are immutable once decoded; transforms never modify rows
package records

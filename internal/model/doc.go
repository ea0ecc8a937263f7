// Package model provides the data model for the ACM configuration store.
//
// This package contains type definitions only. All other internal packages
// import model; model imports nothing internal. This ensures the data model
// remains the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - All relations are keyed by natural keys (names/codes), normalized
//     to NFC at the boundary. Legacy integer id columns survive round-trips
//     but are never used for joins.
//   - Change-log payloads are tagged variants per (entity type, action)
//     pair, never loose maps.
//   - All JSON tags use snake_case.
//   - Timestamps are UTC, RFC 3339.
package model

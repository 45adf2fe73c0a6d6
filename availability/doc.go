// Package availability gates candidate searches on current staffing status.
//
// The gate runs before any vector work so unavailable candidates never reach
// the expensive stages. It fails open: an unreachable store degrades the
// search to "any availability" with an explicit flag rather than blocking it.
package availability

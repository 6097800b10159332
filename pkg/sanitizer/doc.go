// Package sanitizer normalizes user supplied text before validation and
// storage.
//
// Every function is idempotent and never fails: bad input collapses to the
// empty string (or an empty slice), which the validator then rejects when the
// field is required.
package sanitizer

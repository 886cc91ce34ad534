// Package sanitizer provides input normalization for caller-supplied data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors.
//
// Free-text fields (actor display names, contact addresses) are normalized
// here before validation and storage.
package sanitizer

// Package utils provides small stateless helpers shared across the akademy
// services: secure random string generation for initial passwords and email
// masking for logs.
//
// All functions are pure and safe for concurrent use.
package utils

// Package idgen wraps the UUID generator that assigns record identifiers so
// that it can be stubbed in tests. Identifiers are opaque strings.
package idgen

// Package tracing wraps OpenTelemetry so that the collection service can emit
// spans without importing the upstream packages directly. Spans are no-ops
// until Init or InitWithExporter installs a provider.
package tracing

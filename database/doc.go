// Package database opens the per-call database handles used by the
// facades: connection string parsing, bun dialect selection, YAML/env
// configuration, query hooks (debug log, slow query, Prometheus) and
// driver independent error classification.
package database

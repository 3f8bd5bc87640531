// Package repository is the generic facade: package-level functions that
// take the entity or row type per call, open one connection through an
// Executor, run a single bun statement and close the connection again.
// Every function has an ...Async twin returning a Future.
package repository

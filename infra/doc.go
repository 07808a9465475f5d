// Package infra contains technical adapters such as log sinks, metrics
// exporters and SQLite stores. These packages should depend only on the
// interfaces defined in the core packages.
package infra

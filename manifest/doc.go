// Package manifest keeps a local ledger of ingested documents in BadgerDB.
// The pipeline writes one record per successful ingest; the CLI reads the
// ledger to show status and to remove documents. Content checksums in the
// records let callers detect unchanged documents and skip re-ingestion.
package manifest

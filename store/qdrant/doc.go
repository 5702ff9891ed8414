// Package qdrant implements store.VectorStore against a Qdrant instance
// over gRPC. Namespaces map one-to-one onto Qdrant collections.
package qdrant

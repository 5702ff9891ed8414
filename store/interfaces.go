// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package store

import "context"

// Record is a single vector with its string payload, ready for storage.
type Record struct {
	// ID uniquely identifies the record within its namespace. Upserting an
	// existing ID overwrites the stored record.
	ID string

	// Vector is the embedding to index.
	Vector []float32

	// Payload carries the record's metadata. All values are strings;
	// upstream code coerces richer types before records reach the store.
	Payload map[string]string
}

// VectorStore persists embedding records into namespace-scoped partitions.
type VectorStore interface {
	// Upsert inserts or overwrites records in the given namespace. The
	// operation is atomic per record, not per batch: a failure may leave
	// some records written.
	Upsert(ctx context.Context, records []Record, namespace string) error

	// DeleteByDocID removes every record in the namespace whose payload
	// doc_id matches the given value. Deleting an unknown doc_id is not
	// an error.
	DeleteByDocID(ctx context.Context, docID string, namespace string) error

	// Close releases the store's resources.
	Close() error
}

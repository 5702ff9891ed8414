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


// Package store defines the vector storage abstraction used by the pipeline.
//
// A VectorStore persists embedding records into namespace-scoped partitions.
// Within a namespace the record ID is the idempotency key: re-upserting the
// same ID overwrites the stored record. Payload values are plain strings —
// the coercion from richer metadata happens upstream in the persister, since
// the backing store's metadata schema requires a single scalar kind.
//
// # Implementation Packages
//
//   - store/qdrant: Production implementation backed by a Qdrant instance
//     over gRPC; namespaces map to Qdrant collections.
//   - store/mock: Capturing in-memory implementation for tests.
package store

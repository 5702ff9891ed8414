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


package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/poiesic/stratify/core"
	"github.com/poiesic/stratify/store"
)

// Persister maps (node, embedding) pairs into vector store records and
// upserts them, one atomic call per embedding batch.
type Persister struct {
	store     store.VectorStore
	namespace string
}

// NewPersister creates a Persister writing into the given namespace.
func NewPersister(vs store.VectorStore, namespace string) (*Persister, error) {
	if vs == nil {
		return nil, ErrStoreRequired
	}
	if namespace == "" {
		return nil, store.ErrNamespaceRequired
	}
	return &Persister{store: vs, namespace: namespace}, nil
}

// Save upserts one record per (node, vector) pair. The two slices must be
// the same length; the batcher guarantees this.
func (p *Persister) Save(ctx context.Context, nodes []*core.TreeNode, vectors [][]float32) error {
	records := make([]store.Record, len(nodes))
	for i, node := range nodes {
		records[i] = store.Record{
			ID:      node.ID,
			Vector:  vectors[i],
			Payload: buildPayload(node),
		}
	}

	if err := p.store.Upsert(ctx, records, p.namespace); err != nil {
		return fmt.Errorf("%w: upserting %d records: %w", ErrPersist, len(records), err)
	}
	return nil
}

// buildPayload merges the node's metadata over a derived base of content,
// parent, and JSON-encoded children. Metadata wins on key collisions, so
// caller-supplied fields always override pipeline bookkeeping. Nil metadata
// values are dropped, and everything else is coerced to a string because
// the store's payload schema holds a single scalar kind.
func buildPayload(node *core.TreeNode) map[string]string {
	children := node.Children
	if children == nil {
		children = []string{}
	}
	encoded, _ := json.Marshal(children)

	merged := map[string]any{
		"content":  node.Content,
		"children": string(encoded),
	}
	if node.Parent != "" {
		merged["parent"] = node.Parent
	}
	for key, value := range node.Metadata {
		merged[key] = value
	}

	payload := make(map[string]string, len(merged))
	for key, value := range merged {
		if value == nil {
			continue
		}
		payload[key] = coerceString(value)
	}
	return payload
}

func coerceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

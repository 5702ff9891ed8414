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


package core

import "fmt"

// ValidateTree validates a complete summary tree according to domain rules.
//
// Validation rules:
//   - Every node has a unique, non-empty ID
//   - Exactly one root (empty Parent)
//   - Every non-root node's parent exists in the tree
//   - Each parent's Children list matches exactly the set of nodes naming it
//     as parent
//   - Every node's metadata carries the owning-document identifiers
//
// NOT validated:
//   - Content (summaries may legitimately be empty for degenerate input)
//   - Vector payloads (attached downstream by the embedding stage)
func ValidateTree(nodes []*TreeNode) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTree, ErrNoRoot)
	}

	byID := make(map[string]*TreeNode, len(nodes))
	var root *TreeNode
	for _, node := range nodes {
		if node.ID == "" {
			return fmt.Errorf("%w: %w", ErrInvalidTree, ErrEmptyNodeID)
		}
		if _, exists := byID[node.ID]; exists {
			return fmt.Errorf("%w: %w: %s", ErrInvalidTree, ErrDuplicateNodeID, node.ID)
		}
		byID[node.ID] = node

		if node.IsRoot() {
			if root != nil {
				return fmt.Errorf("%w: %w", ErrInvalidTree, ErrMultipleRoots)
			}
			root = node
		}
	}
	if root == nil {
		return fmt.Errorf("%w: %w", ErrInvalidTree, ErrNoRoot)
	}

	// Collect the children each parent actually has according to Parent
	// references, then compare against the declared Children lists.
	referenced := make(map[string]map[string]bool, len(nodes))
	for _, node := range nodes {
		if node.IsRoot() {
			continue
		}
		if _, ok := byID[node.Parent]; !ok {
			return fmt.Errorf("%w: %w: node %s references %s",
				ErrInvalidTree, ErrOrphanNode, node.ID, node.Parent)
		}
		if referenced[node.Parent] == nil {
			referenced[node.Parent] = make(map[string]bool)
		}
		referenced[node.Parent][node.ID] = true
	}

	for _, node := range nodes {
		declared := node.Children
		actual := referenced[node.ID]
		if len(declared) != len(actual) {
			return fmt.Errorf("%w: %w: node %s declares %d children, %d reference it",
				ErrInvalidTree, ErrChildMismatch, node.ID, len(declared), len(actual))
		}
		for _, child := range declared {
			if !actual[child] {
				return fmt.Errorf("%w: %w: node %s declares child %s which does not reference it",
					ErrInvalidTree, ErrChildMismatch, node.ID, child)
			}
		}
	}

	for _, node := range nodes {
		if err := validateDocMetadata(node); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTree, err)
		}
	}

	return nil
}

// validateDocMetadata checks that a node carries the owning-document identifiers.
func validateDocMetadata(node *TreeNode) error {
	for _, key := range []string{MetaDocID, MetaUID, MetaFilename} {
		if _, ok := node.Metadata[key]; !ok {
			return fmt.Errorf("%w: node %s lacks %q", ErrMissingDocMetadata, node.ID, key)
		}
	}
	return nil
}

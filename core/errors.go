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

import "errors"

// Domain validation errors
var (
	// ErrInvalidTree indicates a summary tree failed validation.
	ErrInvalidTree = errors.New("invalid summary tree")

	// ErrEmptyNodeID indicates a TreeNode has no ID.
	ErrEmptyNodeID = errors.New("node ID cannot be empty")

	// ErrDuplicateNodeID indicates two nodes in one tree share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrNoRoot indicates the tree has no root node.
	ErrNoRoot = errors.New("tree has no root")

	// ErrMultipleRoots indicates the tree has more than one root node.
	ErrMultipleRoots = errors.New("tree has multiple roots")

	// ErrOrphanNode indicates a node references a parent that does not exist.
	ErrOrphanNode = errors.New("node parent not found in tree")

	// ErrChildMismatch indicates a parent's children list does not match the
	// set of nodes that name it as parent.
	ErrChildMismatch = errors.New("children do not match parent references")

	// ErrMissingDocMetadata indicates a node lacks the owning-document
	// identifiers every persisted node must carry.
	ErrMissingDocMetadata = errors.New("missing document metadata")
)

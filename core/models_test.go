package core

import (
	"testing"
)

func TestChecksumFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "simple content",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum1 := ChecksumFromContent(tt.content)
			sum2 := ChecksumFromContent(tt.content)

			if sum1 != sum2 {
				t.Errorf("ChecksumFromContent() produced different checksums for same content: %s vs %s", sum1, sum2)
			}
			if len(sum1) != 32 {
				t.Errorf("ChecksumFromContent() returned %d hex chars, want 32", len(sum1))
			}
		})
	}
}

func TestChecksumFromContent_DifferentContent(t *testing.T) {
	if ChecksumFromContent("alpha") == ChecksumFromContent("beta") {
		t.Error("different content produced identical checksums")
	}
}

func TestTreeNode_IsLeaf(t *testing.T) {
	leaf := &TreeNode{ID: "a", Parent: "b"}
	if !leaf.IsLeaf() {
		t.Error("node without children should be a leaf")
	}

	parent := &TreeNode{ID: "b", Children: []string{"a"}}
	if parent.IsLeaf() {
		t.Error("node with children should not be a leaf")
	}
}

func TestTreeNode_IsRoot(t *testing.T) {
	root := &TreeNode{ID: "r"}
	if !root.IsRoot() {
		t.Error("node with empty parent should be the root")
	}

	child := &TreeNode{ID: "c", Parent: "r"}
	if child.IsRoot() {
		t.Error("node with a parent should not be the root")
	}
}

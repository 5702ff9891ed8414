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
	"fmt"
	"iter"

	"github.com/poiesic/stratify/core"
)

// DefaultChunkSize is the chunk length, in characters, used when no
// override is given.
const DefaultChunkSize = 300

// Chunker splits an ordered sequence of text segments into bounded-size
// chunks, preserving metadata attribution per chunk.
type Chunker struct {
	size int
}

// NewChunker creates a Chunker emitting chunks of the given size.
func NewChunker(size int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
	}
	return &Chunker{size: size}, nil
}

// Split lazily slices the segments into chunks. Segment text is concatenated
// across segment boundaries, so a segment shorter than the chunk size merges
// with the segments that follow it. Lengths and boundaries are measured in
// characters (Unicode code points), never bytes, so a boundary can not land
// inside a multibyte rune.
//
// Each chunk carries the metadata of the segment that was current when the
// chunk was opened, so a chunk spanning a page break is attributed to the
// page where it started. Two exceptions: a chunk completed exactly at a
// segment boundary carries the closing segment's metadata, and the final
// flush carries the last-seen segment's metadata.
//
// The returned sequence is single-use and finite.
func (c *Chunker) Split(segments []core.TextSegment) iter.Seq[core.TextChunk] {
	return func(yield func(core.TextChunk) bool) {
		if len(segments) == 0 {
			return
		}

		var (
			segIdx   int
			offset   int
			acc      []rune
			cur      = []rune(segments[0].Text)
			openMeta = segments[0].Metadata
		)

		for segIdx < len(segments) {
			seg := segments[segIdx]
			remaining := len(cur) - offset
			needed := len(acc) + remaining

			if needed <= c.size {
				// The whole segment fits; absorb it and move on.
				acc = append(acc, cur[offset:]...)
				segIdx++
				offset = 0
				if segIdx < len(segments) {
					cur = []rune(segments[segIdx].Text)
				}
				if needed == c.size {
					if !yield(core.TextChunk{Text: string(acc), Metadata: seg.Metadata}) {
						return
					}
					acc = acc[:0]
					openMeta = seg.Metadata
				}
				continue
			}

			take := min(c.size, remaining)
			acc = append(acc, cur[offset:offset+take]...)
			if !yield(core.TextChunk{Text: string(acc), Metadata: openMeta}) {
				return
			}
			acc = acc[:0]
			openMeta = seg.Metadata
			offset += take
		}

		if len(acc) > 0 {
			yield(core.TextChunk{Text: string(acc), Metadata: segments[len(segments)-1].Metadata})
		}
	}
}

// DropEmpty filters out chunks with empty text. Parsers should not produce
// them, but an empty chunk would become an unembeddable leaf node.
func DropEmpty(chunks iter.Seq[core.TextChunk]) iter.Seq[core.TextChunk] {
	return func(yield func(core.TextChunk) bool) {
		for chunk := range chunks {
			if len(chunk.Text) == 0 {
				continue
			}
			if !yield(chunk) {
				return
			}
		}
	}
}

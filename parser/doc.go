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


// Package parser converts raw document bytes into ordered text segments.
//
// A Parser produces core.TextSegment values in source reading order, each
// carrying the owning-document identifiers (filename, doc_id, uid) and, where
// the format provides it, a page number. The ingestion pipeline trusts this:
// it does not re-inject document identifiers per segment.
//
// Format support is dispatched by file extension via ForFile. Plain text,
// Markdown (goldmark), and PDF (ledongthuc/pdf) are supported.
package parser

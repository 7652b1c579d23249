// Copyright 2025 Textloom
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

import (
	"time"
	"unicode/utf8"
)

// Row is one question/answer record from the source dataset.
type Row struct {
	Copyright string
	URL       string
	Question  string
	Answer    string
}

// CopyrightHolder owns one or more sources. Names are globally unique;
// re-ingesting the same name resolves to the existing record.
type CopyrightHolder struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Source is a single ingested document location, owned by exactly one
// copyright holder. URLs are globally unique.
type Source struct {
	ID                int64
	CopyrightHolderID int64
	URL               string
	CreatedAt         time.Time
}

// Chunk is a bounded text segment paired with its embedding vector and
// descriptive metadata. Chunks are written once and never updated.
type Chunk struct {
	ID        int64
	SourceID  int64
	Content   string
	Embedding []float32
	Metadata  Metadata
	CreatedAt time.Time
}

// Metadata type values.
const (
	TypeQuestion = "question"
	TypeAnswer   = "answer"
)

// ChunkMethodSingle marks a chunk that holds an entire text unsplit.
// The question chunk always uses it regardless of the run's strategy.
const ChunkMethodSingle = "single"

// ChunkInfo describes how a chunk was produced. Index 0 is reserved for the
// question; answer chunks are numbered 1..k.
type ChunkInfo struct {
	ChunkMethod       string `json:"chunk_method"`
	ChunkIndex        int    `json:"chunk_index"`
	TotalAnswerChunks int    `json:"total_answer_chunks,omitempty"`
	OriginalLength    int    `json:"original_length,omitempty"`
	IsQuestion        bool   `json:"is_question"`
}

// Metadata is the structured document persisted alongside each chunk. Both
// question and answer chunks carry the full question and answer text so a
// chunk is self-describing without joins.
type Metadata struct {
	Type        string    `json:"type"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	AnswerChunk string    `json:"answer_chunk,omitempty"`
	ChunkInfo   ChunkInfo `json:"chunk_info"`
}

// QuestionMetadata builds the metadata document for a row's question chunk.
func QuestionMetadata(row *Row) Metadata {
	return Metadata{
		Type:     TypeQuestion,
		Question: row.Question,
		Answer:   row.Answer,
		ChunkInfo: ChunkInfo{
			ChunkMethod: ChunkMethodSingle,
			ChunkIndex:  0,
			IsQuestion:  true,
		},
	}
}

// AnswerMetadata builds the metadata document for one answer chunk.
// index is 1-based; total is the number of answer chunks for the row.
func AnswerMetadata(row *Row, chunkText, method string, index, total int) Metadata {
	return Metadata{
		Type:        TypeAnswer,
		Question:    row.Question,
		Answer:      row.Answer,
		AnswerChunk: chunkText,
		ChunkInfo: ChunkInfo{
			ChunkMethod:       method,
			ChunkIndex:        index,
			TotalAnswerChunks: total,
			OriginalLength:    utf8.RuneCountInString(row.Answer),
			IsQuestion:        false,
		},
	}
}

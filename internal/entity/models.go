package entity

import "time"

// Chunk is the unit of embedding and retrieval: a contiguous slice of a
// document's extracted text with its zero-based position in the document.
// There is no separate document entity; documents exist only as chunk
// payloads in the vector index.
type Chunk struct {
	DocumentID string
	Filename   string
	Index      int
	Content    string
}

// IndexedPoint is the unit stored in the vector index.
type IndexedPoint struct {
	ID      uint64
	Vector  []float32
	Payload Chunk
}

// ScoredChunk is a retrieval result, ranked by similarity descending.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// IngestResult is what the ingestion pipeline reports back to the caller.
type IngestResult struct {
	DocumentID string
	ChunkCount int
}

// ConversationTurn is a question and its generated answer. Turns are
// ephemeral: they live in the session cache and are never persisted.
type ConversationTurn struct {
	Question string
	Answer   string
	AskedAt  time.Time
}

// Session groups the turns of one conversation, optionally pinned to a
// single document.
type Session struct {
	ID         string
	DocumentID string
	Turns      []ConversationTurn
	CreatedAt  time.Time
}

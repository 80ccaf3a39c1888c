package entity

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UploadDocumentResponse is returned by POST /documents.
type UploadDocumentResponse struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
}

// AskRequest is the body of POST /questions.
type AskRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
}

// AskResponse is returned by POST /questions.
type AskResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

// TurnDTO is one question/answer pair in a transcript.
type TurnDTO struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	AskedAt  string `json:"asked_at"`
}

// TranscriptResponse is returned by GET /sessions/{session_id}.
type TranscriptResponse struct {
	SessionID  string    `json:"session_id"`
	DocumentID string    `json:"document_id,omitempty"`
	Turns      []TurnDTO `json:"turns"`
}

// ResultFormat selects the transcript export rendering.
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
)

// Package retrieval implements the context retrieval and assembly engine:
// intent classification, access-controlled two-stage vector search over chat
// messages and documents, result normalization and ranking, and bounded
// context assembly.
package retrieval

// Channel visibility types understood by the access filter.
const (
	ChannelPublic       = "public"
	ChannelPrivate      = "private"
	ChannelDM           = "dm"
	ChannelAssistant    = "assistant"
	ChannelChannelQuery = "channel_query"
	ChannelUserQuery    = "user_query"
)

// Query is a single retrieval request. Constructed once per request and
// never mutated.
type Query struct {
	Text        string
	UserID      string
	ChannelID   string
	ChannelType string
	TopK        int
	Threshold   float32
}

// MessageRecord is an indexed chat message as stored in the vector index
// payload. Produced by the message ingestion pipeline; read-only here.
type MessageRecord struct {
	MessageID   string
	ChannelID   string
	ChannelName string
	ChannelType string
	SenderName  string
	ThreadID    string
	UserID      string
	Content     string
}

// DocumentSummaryRecord is an indexed whole-document summary used as a
// coarse locator during the first retrieval stage.
type DocumentSummaryRecord struct {
	FileID      string
	FileName    string
	Content     string
	TotalChunks int
}

// DocumentChunkRecord is an indexed fragment of a document.
type DocumentChunkRecord struct {
	FileID      string
	FileName    string
	ChunkIndex  int
	TotalChunks int
	PageNumber  int
	Content     string
}

// ScoredMessage pairs a chat message with its similarity score.
type ScoredMessage struct {
	Record MessageRecord
	Score  float32
}

// ScoredSummary pairs a document summary with its similarity score.
type ScoredSummary struct {
	Record DocumentSummaryRecord
	Score  float32
}

// ScoredChunk pairs a document chunk with a score. During chunk widening the
// score is inherited from the admitting summary, not re-scored per chunk.
type ScoredChunk struct {
	Record DocumentChunkRecord
	Score  float32
}

// RetrievedItem is the engine's normalized output unit. Provenance is the
// channel name for chat content or "Document" for document content;
// Attribution is the sender name or file name.
type RetrievedItem struct {
	ID          string  `json:"id"`
	Provenance  string  `json:"provenance"`
	Attribution string  `json:"attribution"`
	Content     string  `json:"content"`
	Score       float32 `json:"score"`
}

// Result is the ranked output of a retrieval request. Query carries the
// original request text, not the refined search query.
type Result struct {
	Query string          `json:"query"`
	Items []RetrievedItem `json:"items"`
}

// Payload decode helpers. Index payloads arrive as map[string]any with
// integers widened to int64; missing fields decode to zero values and are
// dropped later by the formatter.

func metaString(meta map[string]any, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func messageFromMeta(meta map[string]any) MessageRecord {
	return MessageRecord{
		MessageID:   metaString(meta, "message_id"),
		ChannelID:   metaString(meta, "channel_id"),
		ChannelName: metaString(meta, "channel_name"),
		ChannelType: metaString(meta, "channel_type"),
		SenderName:  metaString(meta, "sender_name"),
		ThreadID:    metaString(meta, "thread_id"),
		UserID:      metaString(meta, "user_id"),
		Content:     metaString(meta, "content"),
	}
}

func summaryFromMeta(meta map[string]any) DocumentSummaryRecord {
	return DocumentSummaryRecord{
		FileID:      metaString(meta, "file_id"),
		FileName:    metaString(meta, "file_name"),
		Content:     metaString(meta, "content"),
		TotalChunks: metaInt(meta, "total_chunks"),
	}
}

func chunkFromMeta(meta map[string]any) DocumentChunkRecord {
	return DocumentChunkRecord{
		FileID:      metaString(meta, "file_id"),
		FileName:    metaString(meta, "file_name"),
		ChunkIndex:  metaInt(meta, "chunk_index"),
		TotalChunks: metaInt(meta, "total_chunks"),
		PageNumber:  metaInt(meta, "page_number"),
		Content:     metaString(meta, "content"),
	}
}

package retrieval

import (
	"fmt"

	"chatgenius-context/internal/metrics"
)

// formatMessage normalizes a scored chat message into a RetrievedItem.
// Returns nil when required fields are missing; malformed index entries are
// dropped, never fatal.
func formatMessage(m ScoredMessage) *RetrievedItem {
	r := m.Record
	if r.MessageID == "" || r.ChannelName == "" || r.SenderName == "" || r.Content == "" {
		metrics.FormatterDropsTotal.Inc()
		return nil
	}
	return &RetrievedItem{
		ID:          r.MessageID,
		Provenance:  r.ChannelName,
		Attribution: r.SenderName,
		Content:     r.Content,
		Score:       m.Score,
	}
}

// formatChunk normalizes a scored document chunk into a RetrievedItem. The
// content is prefixed with a source citation identifying file, page and
// part, which is the only signal the generation step has to cite sources.
func formatChunk(c ScoredChunk) *RetrievedItem {
	r := c.Record
	if r.FileID == "" || r.FileName == "" || r.Content == "" {
		metrics.FormatterDropsTotal.Inc()
		return nil
	}
	content := fmt.Sprintf("[Source: %s (Page %d, Part %d/%d)]\n%s",
		r.FileName, r.PageNumber, r.ChunkIndex+1, r.TotalChunks, r.Content)
	return &RetrievedItem{
		ID:          r.FileID,
		Provenance:  "Document",
		Attribution: r.FileName,
		Content:     content,
		Score:       c.Score,
	}
}

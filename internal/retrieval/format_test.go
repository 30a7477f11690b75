package retrieval

import (
	"strings"
	"testing"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name    string
		message ScoredMessage
		want    *RetrievedItem
	}{
		{
			name: "valid message",
			message: ScoredMessage{
				Record: MessageRecord{
					MessageID:   "m-1",
					ChannelName: "general",
					SenderName:  "alice",
					Content:     "deploy finished",
				},
				Score: 0.8,
			},
			want: &RetrievedItem{
				ID:          "m-1",
				Provenance:  "general",
				Attribution: "alice",
				Content:     "deploy finished",
				Score:       0.8,
			},
		},
		{
			name: "missing content dropped",
			message: ScoredMessage{
				Record: MessageRecord{MessageID: "m-2", ChannelName: "general", SenderName: "alice"},
				Score:  0.9,
			},
			want: nil,
		},
		{
			name: "missing sender dropped",
			message: ScoredMessage{
				Record: MessageRecord{MessageID: "m-3", ChannelName: "general", Content: "hello"},
				Score:  0.9,
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMessage(tt.message)
			if tt.want == nil {
				if got != nil {
					t.Errorf("formatMessage() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("formatMessage() = nil, want item")
			}
			if *got != *tt.want {
				t.Errorf("formatMessage() = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestFormatChunk(t *testing.T) {
	chunk := ScoredChunk{
		Record: DocumentChunkRecord{
			FileID:      "f-1",
			FileName:    "handbook.pdf",
			ChunkIndex:  2,
			TotalChunks: 10,
			PageNumber:  4,
			Content:     "Expense reports are due monthly.",
		},
		Score: 0.65,
	}

	got := formatChunk(chunk)
	if got == nil {
		t.Fatal("formatChunk() = nil, want item")
	}
	if got.ID != "f-1" || got.Provenance != "Document" || got.Attribution != "handbook.pdf" {
		t.Errorf("formatChunk() labels = %q/%q/%q", got.ID, got.Provenance, got.Attribution)
	}
	// Part number is 1-based
	wantPrefix := "[Source: handbook.pdf (Page 4, Part 3/10)]\n"
	if !strings.HasPrefix(got.Content, wantPrefix) {
		t.Errorf("formatChunk() content = %q, want prefix %q", got.Content, wantPrefix)
	}
	if !strings.HasSuffix(got.Content, "Expense reports are due monthly.") {
		t.Errorf("formatChunk() content missing original text: %q", got.Content)
	}
}

func TestFormatChunk_DropsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		chunk ScoredChunk
	}{
		{
			name:  "missing file name",
			chunk: ScoredChunk{Record: DocumentChunkRecord{FileID: "f-1", Content: "text"}},
		},
		{
			name:  "empty content",
			chunk: ScoredChunk{Record: DocumentChunkRecord{FileID: "f-1", FileName: "a.pdf"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatChunk(tt.chunk); got != nil {
				t.Errorf("formatChunk() = %+v, want nil", got)
			}
		})
	}
}

func TestFormatDedupedChunks(t *testing.T) {
	mkChunk := func(fileID string, index int, score float32) ScoredChunk {
		return ScoredChunk{
			Record: DocumentChunkRecord{
				FileID:      fileID,
				FileName:    "doc.pdf",
				ChunkIndex:  index,
				TotalChunks: 5,
				Content:     "chunk body",
			},
			Score: score,
		}
	}

	// Two summaries reached the same file; chunk (F, 3) appears twice with
	// different inherited scores.
	sets := [][]ScoredChunk{
		{mkChunk("F", 3, 0.8), mkChunk("F", 1, 0.8)},
		{mkChunk("F", 3, 0.6), mkChunk("G", 0, 0.6)},
	}

	items := formatDedupedChunks(sets)
	if len(items) != 3 {
		t.Fatalf("formatDedupedChunks() returned %d items, want 3", len(items))
	}

	count := 0
	for _, item := range items {
		if item.ID == "F" && strings.Contains(item.Content, "Part 4/5") {
			count++
			if item.Score != 0.8 {
				t.Errorf("deduped chunk score = %v, want 0.8", item.Score)
			}
		}
	}
	if count != 1 {
		t.Errorf("chunk (F,3) appears %d times, want 1", count)
	}
}

func TestFormatDedupedChunks_LowerScoreDoesNotReplace(t *testing.T) {
	sets := [][]ScoredChunk{
		{{Record: DocumentChunkRecord{FileID: "F", FileName: "a.pdf", ChunkIndex: 0, TotalChunks: 1, Content: "x"}, Score: 0.9}},
		{{Record: DocumentChunkRecord{FileID: "F", FileName: "a.pdf", ChunkIndex: 0, TotalChunks: 1, Content: "x"}, Score: 0.4}},
	}

	items := formatDedupedChunks(sets)
	if len(items) != 1 {
		t.Fatalf("formatDedupedChunks() returned %d items, want 1", len(items))
	}
	if items[0].Score != 0.9 {
		t.Errorf("score = %v, want 0.9", items[0].Score)
	}
}

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewEmbeddingsClient(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:8081", "test-key", "test-model", 1024)
	if client == nil {
		t.Fatal("NewEmbeddingsClient() returned nil")
	}
	if client.ExpectedSize != 1024 {
		t.Errorf("NewEmbeddingsClient() ExpectedSize = %v, want 1024", client.ExpectedSize)
	}
}

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name         string
		texts        []string
		expectedSize int
		serverResp   func(t *testing.T, w http.ResponseWriter, r *http.Request)
		wantCount    int
		wantErr      bool
		wantErrMsg   string
	}{
		{
			name:         "successful embedding",
			texts:        []string{"hello", "world"},
			expectedSize: 3,
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/embeddings" {
					t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
				}
				if !strings.Contains(r.Header.Get("Authorization"), "Bearer") {
					t.Error("missing Authorization header")
				}

				var req EmbeddingsRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if len(req.Input) != 2 {
					t.Errorf("expected 2 inputs, got %d", len(req.Input))
				}

				resp := EmbeddingsResponse{
					Data: []EmbeddingData{
						{Embedding: []float64{0.1, 0.2, 0.3}},
						{Embedding: []float64{0.4, 0.5, 0.6}},
					},
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantCount: 2,
			wantErr:   false,
		},
		{
			name:         "count mismatch",
			texts:        []string{"hello", "world"},
			expectedSize: 3,
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				resp := EmbeddingsResponse{
					Data: []EmbeddingData{
						{Embedding: []float64{0.1, 0.2, 0.3}},
					},
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr:    true,
			wantErrMsg: "expected 2 embeddings",
		},
		{
			name:         "size mismatch",
			texts:        []string{"hello"},
			expectedSize: 1024,
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				resp := EmbeddingsResponse{
					Data: []EmbeddingData{
						{Embedding: []float64{0.1, 0.2, 0.3}},
					},
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr:    true,
			wantErrMsg: "expected 1024",
		},
		{
			name:         "server error",
			texts:        []string{"hello"},
			expectedSize: 3,
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("upstream unavailable"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.serverResp(t, w, r)
			}))
			defer server.Close()

			client := NewEmbeddingsClient(server.URL, "test-key", "test-model", tt.expectedSize)
			vecs, err := client.EmbedTexts(context.Background(), tt.texts)

			if tt.wantErr {
				if err == nil {
					t.Fatal("EmbedTexts() expected error, got nil")
				}
				if tt.wantErrMsg != "" && !strings.Contains(err.Error(), tt.wantErrMsg) {
					t.Errorf("EmbedTexts() error = %v, want containing %q", err, tt.wantErrMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("EmbedTexts() unexpected error: %v", err)
			}
			if len(vecs) != tt.wantCount {
				t.Errorf("EmbedTexts() returned %d vectors, want %d", len(vecs), tt.wantCount)
			}
			for i, vec := range vecs {
				if len(vec) != tt.expectedSize {
					t.Errorf("vector %d has size %d, want %d", i, len(vec), tt.expectedSize)
				}
			}
		})
	}
}

func TestEmbeddingsClient_EmbedTexts_EmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:8081", "test-key", "test-model", 3)
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Error("EmbedTexts() with empty input should return error")
	}
}

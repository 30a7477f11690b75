package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_client.go -package=mocks chatgenius-context/internal/service ChatClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_context_assembler.go -package=mocks chatgenius-context/internal/service ContextAssembler
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_directory.go -package=mocks chatgenius-context/internal/service Directory
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_assistant_service.go -package=mocks -mock_names=AssistantService=MockAssistantService chatgenius-context/internal/service AssistantService

import (
	"context"
	"fmt"
	"strings"

	"chatgenius-context/internal/contextutil"
	"chatgenius-context/internal/llm"
	"chatgenius-context/internal/retrieval"
	"chatgenius-context/internal/storage"
)

// ChatClient is the completion provider used to generate assistant replies.
// Defined from the service layer's perspective (consumer-first).
type ChatClient interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// ContextAssembler turns ranked retrieval items into one bounded context
// string.
type ContextAssembler interface {
	Assemble(ctx context.Context, items []retrieval.RetrievedItem) string
}

// Directory resolves users and channels for prompt context. Lookups are
// best-effort; the assistant answers without them when they fail.
type Directory interface {
	GetUsername(ctx context.Context, userID string) (string, error)
	GetChannel(ctx context.Context, channelID string) (storage.Channel, error)
}

// AssistRequest is a question for the workspace assistant.
type AssistRequest struct {
	Message     string
	UserID      string
	ChannelID   string
	ChannelType string
}

// AssistResponse is the assistant's grounded reply.
type AssistResponse struct {
	Response    string
	ContextUsed int     // number of retrieved items grounding the reply
	Confidence  float32 // top similarity score among used items
}

// AssistantService answers questions grounded in retrieved workspace context.
type AssistantService interface {
	Assist(ctx context.Context, req AssistRequest) (AssistResponse, error)
}

const (
	assistTopK      = 10
	assistThreshold = 0.3

	assistSystemPrompt = `You are ChatGenius, a helpful workspace assistant.
Answer using the provided context from chat history and documents when it is relevant.
When you use document content, cite it using the [Source: ...] labels it carries.
If the context does not cover the question, say so rather than inventing an answer.`
)

type assistantService struct {
	engine    retrieval.Engine
	assembler ContextAssembler
	chat      ChatClient
	directory Directory
}

// NewAssistantService creates a new AssistantService.
func NewAssistantService(engine retrieval.Engine, assembler ContextAssembler, chat ChatClient, directory Directory) AssistantService {
	return &assistantService{
		engine:    engine,
		assembler: assembler,
		chat:      chat,
		directory: directory,
	}
}

func (s *assistantService) Assist(ctx context.Context, req AssistRequest) (AssistResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Message) == "" {
		return AssistResponse{}, &ValidationError{Field: "message", Message: "cannot be empty"}
	}

	result, err := s.engine.Retrieve(ctx, retrieval.Query{
		Text:        req.Message,
		UserID:      req.UserID,
		ChannelID:   req.ChannelID,
		ChannelType: req.ChannelType,
		TopK:        assistTopK,
		Threshold:   assistThreshold,
	})
	if err != nil {
		// Only invalid input reaches here; provider failures degrade inside
		// the engine.
		return AssistResponse{}, err
	}

	contextText := s.assembler.Assemble(ctx, result.Items)
	messages := s.buildMessages(ctx, req, contextText)

	reply, err := s.chat.ChatWithMessages(ctx, messages, llm.ChatParams{
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to get assistant reply", "error", err)
		return AssistResponse{}, WrapError(ErrExternalService, err.Error())
	}

	confidence := float32(0)
	if len(result.Items) > 0 {
		confidence = result.Items[0].Score
	}

	logger.InfoContext(ctx, "assist request processed",
		"context_items", len(result.Items),
		"reply_length", len(reply),
	)

	return AssistResponse{
		Response:    reply,
		ContextUsed: len(result.Items),
		Confidence:  confidence,
	}, nil
}

// buildMessages composes the generation prompt: system instructions, the
// retrieved context, and best-effort channel and user framing.
func (s *assistantService) buildMessages(ctx context.Context, req AssistRequest, contextText string) []llm.Message {
	logger := contextutil.LoggerFromContext(ctx)

	var b strings.Builder
	b.WriteString(assistSystemPrompt)

	if s.directory != nil {
		if channel, err := s.directory.GetChannel(ctx, req.ChannelID); err == nil {
			b.WriteString(fmt.Sprintf("\nYou are answering in the %q channel (%s).", channel.Name, channel.ChannelType))
		} else {
			logger.WarnContext(ctx, "channel lookup failed, continuing without channel context", "channel_id", req.ChannelID, "error", err)
		}
		if username, err := s.directory.GetUsername(ctx, req.UserID); err == nil {
			b.WriteString(fmt.Sprintf("\nThe current user is %s.", username))
		} else {
			logger.WarnContext(ctx, "user lookup failed, continuing without user context", "user_id", req.UserID, "error", err)
		}
	}

	if contextText != "" {
		b.WriteString("\n\nRelevant context:\n")
		b.WriteString(contextText)
	}

	return []llm.Message{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: req.Message},
	}
}

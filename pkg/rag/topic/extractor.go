package topic

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"wikivoice-be/internal/constant"
	"wikivoice-be/pkg/llm"
)

// Extraction is a pre-stage of every turn, so it gets a short deadline;
// on expiry the utterance itself is used as the search topic.
const extractTimeout = 10 * time.Second

// Extractor turns a conversational utterance into a bare search topic.
// Extraction is a best-effort optimization: any failure falls back to the
// original utterance, never an error.
type Extractor struct {
	llmProvider llm.LLMProvider
	logger      *zap.Logger
}

func NewExtractor(llmProvider llm.LLMProvider, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Extract issues a single deterministic call with a small token budget.
func (e *Extractor) Extract(ctx context.Context, utterance string) string {
	messages := []llm.Message{
		{Role: constant.MessageRoleSystem, Content: constant.TopicExtractionPromptV1},
		{Role: constant.MessageRoleUser, Content: utterance},
	}

	extracted, err := e.llmProvider.Chat(ctx, messages,
		llm.WithTemperature(0),
		llm.WithMaxTokens(50),
		llm.WithTimeout(extractTimeout),
	)
	if err != nil {
		e.logger.Warn("topic extraction failed, using original utterance",
			zap.String("module", "rag.topic"),
			zap.Error(err))
		return utterance
	}

	extracted = strings.TrimSpace(extracted)
	if extracted == "" {
		return utterance
	}

	e.logger.Info("extracted search topic",
		zap.String("module", "rag.topic"),
		zap.String("topic", extracted))
	return extracted
}

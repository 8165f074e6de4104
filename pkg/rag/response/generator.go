package response

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wikivoice-be/internal/constant"
	"wikivoice-be/pkg/llm"
)

// Generation gets a longer deadline than topic extraction but still caps
// a hung upstream well below the client default; on expiry the apology
// string is returned like any other failure.
const generateTimeout = 30 * time.Second

// Generator invokes the model with a composed prompt. Phrasing may vary but
// facts may not, so the call runs at moderate temperature under the grounding
// policy carried in the messages.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *zap.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate returns the model's answer, or the fixed apology string on any
// failure. A raw upstream error is never surfaced mid-conversation.
func (g *Generator) Generate(ctx context.Context, messages []llm.Message) string {
	answer, err := g.llmProvider.Chat(ctx, messages,
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(500),
		llm.WithTimeout(generateTimeout),
	)
	if err != nil {
		g.logger.Error("answer generation failed",
			zap.String("module", "rag.response"),
			zap.Error(err))
		return constant.GenerationApology
	}
	return answer
}

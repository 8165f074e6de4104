package prompt

import (
	"fmt"
	"strings"

	"wikivoice-be/internal/constant"
	"wikivoice-be/pkg/llm"
)

// Turn is one past query/response pair rendered into the history block.
type Turn struct {
	Query    string
	Response string
}

// Build assembles the bounded prompt for one generation call: the verbatim
// grounding policy, a labeled context + history block, an acknowledgement,
// and the current query. Pure and deterministic; history must already be
// oldest-first and capped by the caller.
func Build(contextText string, history []Turn, currentQuery string) []llm.Message {
	messages := []llm.Message{
		{Role: constant.MessageRoleSystem, Content: constant.GroundingSystemPromptV1},
	}

	var block strings.Builder
	block.WriteString("WIKIPEDIA CONTEXT:\n")
	if contextText != "" {
		block.WriteString(contextText)
	} else {
		block.WriteString(constant.EmptyContextSentinel)
	}

	block.WriteString("\n\nCONVERSATION HISTORY:\n")
	if len(history) > 0 {
		for _, turn := range history {
			block.WriteString(fmt.Sprintf("User: %s\nAssistant: %s\n\n", turn.Query, turn.Response))
		}
	} else {
		block.WriteString(constant.EmptyHistorySentinel)
	}

	messages = append(messages,
		llm.Message{Role: constant.MessageRoleUser, Content: block.String()},
		llm.Message{Role: constant.MessageRoleAssistant, Content: constant.ContextAcknowledgement},
		llm.Message{Role: constant.MessageRoleUser, Content: "USER QUERY:\n" + currentQuery},
	)

	return messages
}

package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"

	InputModeText  = "text"
	InputModeVoice = "voice"

	DefaultSessionTitle = "New Conversation"

	// Session titles derived from the first query are cut at this length.
	SessionTitleMaxLength = 50

	// GroundingSystemPromptV1 is the system message sent on every turn. It must
	// always be the first message the model sees, verbatim.
	GroundingSystemPromptV1 = "You are WikiVoice, a helpful AI assistant that answers questions " +
		"using ONLY Wikipedia as your knowledge source.\n\n" +
		"CRITICAL RULES:\n" +
		"1. You MUST ONLY use information from the provided Wikipedia context\n" +
		"2. If no Wikipedia context is provided or it's empty, you MUST say " +
		"\"I couldn't find relevant Wikipedia articles for your question. " +
		"Please try rephrasing or ask about a different topic.\"\n" +
		"3. NEVER use your internal knowledge to answer questions - " +
		"only cite what's in the Wikipedia context\n" +
		"4. Keep responses concise but informative - aim for 2-3 paragraphs max\n" +
		"5. Always cite which Wikipedia article your information comes from\n" +
		"6. Be conversational and friendly since users may be speaking via voice\n\n" +
		"You will receive:\n" +
		"- WIKIPEDIA CONTEXT: Relevant excerpts from Wikipedia articles " +
		"(if empty, decline to answer)\n" +
		"- CONVERSATION HISTORY: Previous messages in this conversation\n" +
		"- USER QUERY: The current question to answer"

	// TopicExtractionPromptV1 steers a zero-temperature call that turns a
	// conversational utterance into a bare search topic.
	TopicExtractionPromptV1 = `Extract the key topic or entity that the user wants to learn about from their query.

Rules:
1. Return ONLY the main topic/entity name, nothing else
2. Remove conversational words like "do you know", "tell me about", "what is", etc.
3. Keep proper nouns and brand names exactly as written
4. If the query is already just a topic name, return it as-is
5. For follow-up questions, identify the subject being discussed

Examples:
- "do you know anything about Rolex" -> "Rolex"
- "can you tell me about the Eiffel Tower?" -> "Eiffel Tower"
- "what is quantum computing" -> "quantum computing"
- "I'm curious about Albert Einstein's life" -> "Albert Einstein"
- "Rolex" -> "Rolex"
- "how does photosynthesis work" -> "photosynthesis"`

	// ContextAcknowledgement primes the model between the context block and the
	// user query.
	ContextAcknowledgement = "I understand. I'll use the Wikipedia context and " +
		"conversation history to answer questions."

	// EmptyContextSentinel replaces the context block when retrieval found
	// nothing; the grounding prompt instructs the model to decline in that case.
	EmptyContextSentinel = "(EMPTY - No Wikipedia articles were found. " +
		"You must decline to answer and ask the user to rephrase.)"

	// EmptyHistorySentinel replaces the history block on a session's first turn.
	EmptyHistorySentinel = "(This is the start of the conversation)"

	// GenerationApology is returned instead of an error when answer generation
	// fails; a turn carrying it is still persisted.
	GenerationApology = "I'm sorry, I encountered an error while processing your question. " +
		"Please try again."
)

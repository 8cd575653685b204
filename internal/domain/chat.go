package domain

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one entry of a conversation transcript. Messages are
// immutable once appended; the transcript order is append order.
type ChatMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatTurnRequest is the UI-shaped body of one conversational turn.
// Message carries the new user utterance; Messages is the transcript so
// far, kept for callers that submit history without a fresh utterance.
type ChatTurnRequest struct {
	Messages   []ChatMessage `json:"messages"`
	StrategyID string        `json:"strategy_id,omitempty"`
	WalletIDs  []string      `json:"wallet_ids,omitempty"`
	Message    string        `json:"message"`
}

// AgentTurnResult is the agent backend's answer to one relayed turn.
type AgentTurnResult struct {
	MessageID     string `json:"message_id"`
	AgentResponse string `json:"agent_response"`
}

// AssistantMessage converts a turn result into a transcript entry.
func (r *AgentTurnResult) AssistantMessage() ChatMessage {
	return ChatMessage{
		ID:      r.MessageID,
		Role:    RoleAssistant,
		Content: r.AgentResponse,
	}
}

// HistoryTurn is one persisted turn as the agent backend reports it:
// a user utterance paired with the agent reply it produced.
type HistoryTurn struct {
	MessageID     string `json:"message_id"`
	UserMessage   string `json:"user_message"`
	AgentResponse string `json:"agent_response"`
	Timestamp     string `json:"timestamp"`
}

// ChatHistory is a page of prior turns plus the backend's total count.
type ChatHistory struct {
	Messages []HistoryTurn `json:"messages"`
	Total    int           `json:"total"`
}

// UploadedAttachment describes one durably stored attachment.
type UploadedAttachment struct {
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"`
	URL          string `json:"url"`
}

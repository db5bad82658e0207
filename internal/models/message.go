package models

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
)

// Message is one entry of the conversation log. Messages are never edited
// once appended.
type Message struct {
	Role    Role
	Content string
	ModelID string // Model that produced an assistant reply, empty for user messages
}

func NewUserMessage(content string) Message {
	return Message{Role: User, Content: content}
}

func NewAssistantMessage(content, modelID string) Message {
	return Message{Role: Assistant, Content: content, ModelID: modelID}
}

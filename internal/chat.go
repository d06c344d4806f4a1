package internal

import (
	"encoding/json"
	"time"
)

// BubbleType identifies the author of a chat bubble
type BubbleType string

const (
	BubbleTypeUser BubbleType = "user"
	BubbleTypeAI   BubbleType = "ai"
)

// UnmarshalJSON accepts both the string form ("user", "ai") and the numeric
// tag Cursor uses in newer records (1 = user, anything else = ai).
func (b *BubbleType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = BubbleType(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*b = bubbleTypeFromTag(int(n))
		return nil
	}
	*b = BubbleTypeAI
	return nil
}

// ChatTab is one resolved conversation belonging to a workspace
type ChatTab struct {
	ID        string       `json:"id" yaml:"id"`
	Title     string       `json:"title" yaml:"title"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp"`
	Bubbles   []ChatBubble `json:"bubbles" yaml:"bubbles"`
}

// ChatBubble is a single message turn within a ChatTab
type ChatBubble struct {
	Type       BubbleType  `json:"type" yaml:"type"`
	Text       string      `json:"text" yaml:"text"`
	ModelType  string      `json:"modelType,omitempty" yaml:"model_type,omitempty"`
	Selections []Selection `json:"selections" yaml:"selections"`
}

// IsUser reports whether the bubble was written by the user
func (b ChatBubble) IsUser() bool {
	return b.Type == BubbleTypeUser
}

// Selection is a code snippet the user attached to a bubble
type Selection struct {
	Text string `json:"text" yaml:"text"`
}

// UnmarshalJSON accepts either {"text": "..."} or a bare string. Any other
// shape decodes to an empty selection rather than failing the bubble.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		s.Text = text
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		s.Text = obj.Text
		return nil
	}
	s.Text = ""
	return nil
}

// TabsResponse is the result of resolving a workspace
type TabsResponse struct {
	Tabs []ChatTab `json:"tabs" yaml:"tabs"`
}

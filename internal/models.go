package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Keys read from the workspace store (ItemTable)
const (
	ComposerDataKey = "composer.composerData"
	ChatViewPaneKey = "workbench.panel.composerChatViewPane"
)

// ComposerBodyKeyPrefix prefixes conversation bodies in the global store (cursorDiskKV)
const ComposerBodyKeyPrefix = "composerData:"

// RawComposerIndex is the workspace-scoped composer record
type RawComposerIndex struct {
	AllComposers []RawComposerRef `json:"allComposers"`
}

// RawComposerRef is one composer entry of the workspace composer record
type RawComposerRef struct {
	ComposerID    string       `json:"composerId"`
	Name          string       `json:"name,omitempty"`
	LastUpdatedAt RawTimestamp `json:"lastUpdatedAt"`
	CreatedAt     RawTimestamp `json:"createdAt"`
}

// RawComposerBody is the conversation body stored under composerData:<id>
type RawComposerBody struct {
	Conversation json.RawMessage `json:"conversation"`
}

// RawMessage is one entry of a composer conversation
type RawMessage struct {
	Type     int             `json:"type"` // 1=user, 2=assistant
	Text     string          `json:"text,omitempty"`
	RichText json.RawMessage `json:"richText,omitempty"`
	Context  *RawMessageCtx  `json:"context,omitempty"`
}

// RawMessageCtx holds the context attached to a composer message
type RawMessageCtx struct {
	Selections []Selection `json:"selections,omitempty"`
}

// RawChatViewPane is the legacy chat-view record
type RawChatViewPane struct {
	AIChatView *RawAIChatView `json:"workbench.panel.aichat.view"`
}

// RawAIChatView holds the legacy tabs
type RawAIChatView struct {
	Tabs []json.RawMessage `json:"tabs"`
}

// RawLegacyTab is one tab of the legacy chat-view format
type RawLegacyTab struct {
	TabID        string          `json:"tabId"`
	ChatTitle    string          `json:"chatTitle,omitempty"`
	LastSendTime RawTimestamp    `json:"lastSendTime"`
	Bubbles      json.RawMessage `json:"bubbles"`
}

// RawTimestamp is a millisecond epoch value. Anything that is not a finite
// JSON number decodes as unset instead of failing the enclosing record.
type RawTimestamp struct {
	ms  float64
	set bool
}

// NewRawTimestamp returns a RawTimestamp holding ms milliseconds since the epoch
func NewRawTimestamp(ms float64) RawTimestamp {
	return RawTimestamp{ms: ms, set: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (t *RawTimestamp) UnmarshalJSON(data []byte) error {
	*t = RawTimestamp{}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	t.ms, t.set = n, true
	return nil
}

// IsSet reports whether the timestamp holds a non-zero value
func (t RawTimestamp) IsSet() bool {
	return t.set && t.ms != 0
}

// Millis returns the raw millisecond value
func (t RawTimestamp) Millis() float64 {
	return t.ms
}

// ParseComposerIndex decodes the workspace composer record
func ParseComposerIndex(value string) (*RawComposerIndex, error) {
	var index RawComposerIndex
	if err := json.Unmarshal([]byte(value), &index); err != nil {
		return nil, &ParseError{Source: "workspaceStorage", Key: ComposerDataKey, Err: err}
	}
	return &index, nil
}

// ParseComposerBody decodes a conversation body from the global store
func ParseComposerBody(key, value string) (string, *RawComposerBody, error) {
	if !strings.HasPrefix(key, ComposerBodyKeyPrefix) {
		return "", nil, &ParseError{Source: "globalStorage", Key: key, Err: fmt.Errorf("invalid composerData key format")}
	}

	var body RawComposerBody
	if err := json.Unmarshal([]byte(value), &body); err != nil {
		return "", nil, &ParseError{Source: "globalStorage", Key: key, Err: err}
	}

	return strings.TrimPrefix(key, ComposerBodyKeyPrefix), &body, nil
}

// Messages returns the conversation entries, or false when the conversation
// field is missing or not a JSON array. Fields with the wrong JSON type are
// left empty; entries that are not objects come back as zero-valued messages
// so the conversation keeps its shape.
func (b *RawComposerBody) Messages() ([]RawMessage, bool) {
	entries, ok := decodeArray(b.Conversation)
	if !ok {
		return nil, false
	}

	messages := make([]RawMessage, len(entries))
	for i, entry := range entries {
		if err := decodeLenient(entry, &messages[i]); err != nil {
			LogDebug("Unreadable conversation entry %d: %v", i, err)
			messages[i] = RawMessage{}
		}
	}
	return messages, true
}

// ParseChatViewPane decodes the legacy chat-view record
func ParseChatViewPane(value string) (*RawChatViewPane, error) {
	var pane RawChatViewPane
	if err := json.Unmarshal([]byte(value), &pane); err != nil {
		return nil, &ParseError{Source: "workspaceStorage", Key: ChatViewPaneKey, Err: err}
	}
	return &pane, nil
}

// LegacyTabs returns the legacy tab entries. Entries that are not objects
// are skipped; fields with the wrong JSON type are left empty.
func (p *RawChatViewPane) LegacyTabs() []RawLegacyTab {
	if p.AIChatView == nil {
		return nil
	}

	tabs := make([]RawLegacyTab, 0, len(p.AIChatView.Tabs))
	for i, raw := range p.AIChatView.Tabs {
		if !isObject(raw) {
			LogDebug("Skipping legacy tab %d: not an object", i)
			continue
		}
		var tab RawLegacyTab
		if err := decodeLenient(raw, &tab); err != nil {
			LogDebug("Skipping unreadable legacy tab %d: %v", i, err)
			continue
		}
		tabs = append(tabs, tab)
	}
	return tabs
}

// LegacyBubbles returns the tab's bubbles, or false when the field is missing
// or not a JSON array. Each bubble is decoded on its own: entries that are not
// objects are skipped and fields with the wrong JSON type are left empty.
func (t *RawLegacyTab) LegacyBubbles() ([]ChatBubble, bool) {
	entries, ok := decodeArray(t.Bubbles)
	if !ok {
		return nil, false
	}

	bubbles := make([]ChatBubble, 0, len(entries))
	for i, entry := range entries {
		if !isObject(entry) {
			LogDebug("Skipping bubble %d of legacy tab %s: not an object", i, t.TabID)
			continue
		}
		var bubble ChatBubble
		if err := decodeLenient(entry, &bubble); err != nil {
			LogDebug("Skipping bubble %d of legacy tab %s: %v", i, t.TabID, err)
			continue
		}
		bubbles = append(bubbles, bubble)
	}
	return bubbles, true
}

// decodeLenient decodes data into v. A field holding the wrong JSON type is
// left at its zero value while the other fields keep what they decoded.
func decodeLenient(data []byte, v interface{}) error {
	err := json.Unmarshal(data, v)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		LogDebug("Ignoring mistyped field %q: %v", typeErr.Field, err)
		return nil
	}
	return err
}

// isObject reports whether raw holds a JSON object
func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// decodeArray splits a raw JSON value into its elements. It reports false for
// anything that is not an array, including null and absent values.
func decodeArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// richTextValue returns the rich text of a message as a string. Cursor stores
// it as a JSON-encoded string; other shapes are returned as their raw JSON.
func (m RawMessage) richTextValue() string {
	trimmed := bytes.TrimSpace(m.RichText)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

package internal

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ComposerModelLabel is the model label attached to assistant bubbles of the
// composer format. The stores do not record the model per message, so the
// label is fixed.
const ComposerModelLabel = "gpt-4"

// DefaultQueryTimeout bounds one resolution, both store cycles included
const DefaultQueryTimeout = 10 * time.Second

// Resolver turns the raw records of a workspace into ChatTabs
type Resolver struct {
	opener       StoreOpener
	queryTimeout time.Duration
	now          func() time.Time
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithQueryTimeout sets the deadline applied to a whole resolution. Zero or
// negative disables the deadline.
func WithQueryTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.queryTimeout = d
	}
}

// WithClock replaces the time source used for missing timestamps
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// NewResolver creates a Resolver reading through opener
func NewResolver(opener StoreOpener, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		opener:       opener,
		queryTimeout: DefaultQueryTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// workspaceRecords holds the two raw workspace keys
type workspaceRecords struct {
	composer    string
	hasComposer bool
	chatView    string
	hasChatView bool
}

// pathResult is the outcome of one source format. ok is false when the
// source could not be read at all.
type pathResult struct {
	tabs []ChatTab
	ok   bool
}

// Resolve returns every chat tab of a workspace. It fails with ErrNotFound
// when the workspace has no chat records and with a *StorageError when the
// workspace store cannot be read. Malformed records only reduce the number
// of tabs.
func (r *Resolver) Resolve(ctx context.Context, workspaceID string) (*TabsResponse, error) {
	if r.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.queryTimeout)
		defer cancel()
	}

	records, err := r.readWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if !records.hasComposer && !records.hasChatView {
		return nil, fmt.Errorf("workspace %s: %w", workspaceID, ErrNotFound)
	}

	response := &TabsResponse{Tabs: []ChatTab{}}

	if records.hasComposer {
		result := r.resolveComposers(ctx, records.composer)
		if len(result.tabs) > 0 {
			response.Tabs = result.tabs
			return response, nil
		}
	}

	if records.hasChatView {
		result := r.resolveLegacy(records.chatView)
		if result.ok {
			response.Tabs = result.tabs
		}
	}

	return response, nil
}

// readWorkspace reads both workspace keys and closes the store on every path
func (r *Resolver) readWorkspace(ctx context.Context, workspaceID string) (records workspaceRecords, err error) {
	store, err := r.opener.OpenWorkspace(ctx, workspaceID)
	if err != nil {
		return records, err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			LogWarn("Failed to close workspace store %s: %v", workspaceID, closeErr)
		}
	}()

	records.composer, records.hasComposer, err = store.Get(ctx, ComposerDataKey)
	if err != nil {
		return records, err
	}
	records.chatView, records.hasChatView, err = store.Get(ctx, ChatViewPaneKey)
	if err != nil {
		return records, err
	}
	return records, nil
}

// resolveComposers builds tabs from the composer record and the global store
func (r *Resolver) resolveComposers(ctx context.Context, raw string) pathResult {
	index, err := ParseComposerIndex(raw)
	if err != nil {
		LogWarn("Error processing composer data: %v", err)
		return pathResult{}
	}

	refs := uniqueComposerRefs(index.AllComposers)
	if len(refs) == 0 {
		return pathResult{ok: true}
	}

	bodies, err := r.fetchConversations(ctx, refs)
	if err != nil {
		LogWarn("Error processing composer data: %v", err)
		return pathResult{}
	}

	tabs := make([]ChatTab, 0, len(refs))
	for _, ref := range refs {
		body, ok := bodies[ref.ComposerID]
		if !ok {
			LogDebug("Dropping composer %s: no conversation body", ref.ComposerID)
			continue
		}
		messages, ok := body.Messages()
		if !ok || len(messages) == 0 {
			LogDebug("Dropping composer %s: conversation is missing, empty or not a list", ref.ComposerID)
			continue
		}
		tabs = append(tabs, r.composerTab(ref, messages))
	}

	return pathResult{tabs: tabs, ok: true}
}

// fetchConversations batch-reads composerData:<id> bodies from the global
// store. Bodies that fail to parse are left out of the result.
func (r *Resolver) fetchConversations(ctx context.Context, refs []RawComposerRef) (map[string]*RawComposerBody, error) {
	store, err := r.opener.OpenGlobal(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			LogWarn("Failed to close global store: %v", closeErr)
		}
	}()

	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = ComposerBodyKeyPrefix + ref.ComposerID
	}

	pairs, err := store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	bodies := make(map[string]*RawComposerBody, len(pairs))
	for _, pair := range pairs {
		composerID, body, err := ParseComposerBody(pair.Key, pair.Value)
		if err != nil {
			LogDebug("Skipping conversation body: %v", err)
			continue
		}
		bodies[composerID] = body
	}
	return bodies, nil
}

// composerTab maps a composer and its conversation onto a ChatTab
func (r *Resolver) composerTab(ref RawComposerRef, messages []RawMessage) ChatTab {
	title := ref.Name
	if title == "" {
		title = fallbackTitle(ref.ComposerID)
	}

	bubbles := make([]ChatBubble, len(messages))
	for i, msg := range messages {
		bubbles[i] = composerBubble(msg)
	}

	return ChatTab{
		ID:        ref.ComposerID,
		Title:     title,
		Timestamp: firstTimestamp(r.now, ref.LastUpdatedAt, ref.CreatedAt),
		Bubbles:   bubbles,
	}
}

// composerBubble maps one raw composer message onto a ChatBubble
func composerBubble(msg RawMessage) ChatBubble {
	bubble := ChatBubble{
		Type:       bubbleTypeFromTag(msg.Type),
		Text:       msg.Text,
		Selections: []Selection{},
	}
	if bubble.Text == "" {
		bubble.Text = plainRichText(msg.richTextValue())
	}
	if msg.Type == 2 {
		bubble.ModelType = ComposerModelLabel
	}
	if msg.Context != nil && len(msg.Context.Selections) > 0 {
		bubble.Selections = msg.Context.Selections
	}
	return bubble
}

func bubbleTypeFromTag(tag int) BubbleType {
	if tag == 1 {
		return BubbleTypeUser
	}
	return BubbleTypeAI
}

// resolveLegacy builds tabs from the legacy chat-view record
func (r *Resolver) resolveLegacy(raw string) pathResult {
	pane, err := ParseChatViewPane(raw)
	if err != nil {
		LogWarn("Error parsing chat data: %v", err)
		return pathResult{}
	}

	legacyTabs := pane.LegacyTabs()
	tabs := make([]ChatTab, 0, len(legacyTabs))
	for _, legacy := range legacyTabs {
		if legacy.TabID == "" {
			LogDebug("Dropping legacy tab without id")
			continue
		}
		bubbles, ok := legacy.LegacyBubbles()
		if !ok || len(bubbles) == 0 {
			LogDebug("Dropping legacy tab %s: bubbles is missing, empty or not a list", legacy.TabID)
			continue
		}

		title := strings.SplitN(legacy.ChatTitle, "\n", 2)[0]
		if title == "" {
			title = fallbackTitle(legacy.TabID)
		}

		tabs = append(tabs, ChatTab{
			ID:        legacy.TabID,
			Title:     title,
			Timestamp: safeParseTimestampAt(legacy.LastSendTime, r.now),
			Bubbles:   normalizeLegacyBubbles(bubbles),
		})
	}

	return pathResult{tabs: tabs, ok: true}
}

// normalizeLegacyBubbles keeps legacy bubbles as stored, only filling in
// empty selection lists and clearing model labels on user bubbles
func normalizeLegacyBubbles(bubbles []ChatBubble) []ChatBubble {
	for i := range bubbles {
		if bubbles[i].Selections == nil {
			bubbles[i].Selections = []Selection{}
		}
		if bubbles[i].IsUser() {
			bubbles[i].ModelType = ""
		}
	}
	return bubbles
}

// uniqueComposerRefs drops references without an id and repeated ids,
// keeping source order
func uniqueComposerRefs(refs []RawComposerRef) []RawComposerRef {
	seen := make(map[string]bool, len(refs))
	unique := make([]RawComposerRef, 0, len(refs))
	for _, ref := range refs {
		if ref.ComposerID == "" || seen[ref.ComposerID] {
			continue
		}
		seen[ref.ComposerID] = true
		unique = append(unique, ref)
	}
	return unique
}

// fallbackTitle is the title used when a conversation has none
func fallbackTitle(id string) string {
	return "Chat " + ShortID(id)
}

// ShortID returns the first 8 characters of an id
func ShortID(id string) string {
	runes := []rune(id)
	if len(runes) > 8 {
		return string(runes[:8])
	}
	return id
}

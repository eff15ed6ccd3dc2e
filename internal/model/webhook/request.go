// Package webhook models the fulfillment request and response documents
// exchanged with the NLU dialog platform.
package webhook

// Request is the inbound fulfillment request. Only the fields the
// conversation engine consumes are modeled; the rest of the platform
// payload is ignored.
type Request struct {
	QueryResult                 QueryResult                 `json:"queryResult"`
	OriginalDetectIntentRequest OriginalDetectIntentRequest `json:"originalDetectIntentRequest"`
}

// QueryResult carries the detected utterance and conversation context.
type QueryResult struct {
	QueryText      string    `json:"queryText"`
	LanguageCode   string    `json:"languageCode"`
	OutputContexts []Context `json:"outputContexts,omitempty"`
}

// OriginalDetectIntentRequest wraps the channel-specific payload.
type OriginalDetectIntentRequest struct {
	Payload OriginalPayload `json:"payload"`
}

// OriginalPayload identifies the presentation channel and conversation.
type OriginalPayload struct {
	Platform  string `json:"platform"`
	SessionID string `json:"session_id"`
}

// Context is a platform-managed conversational memory slot with a
// decaying lifespan counter.
type Context struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

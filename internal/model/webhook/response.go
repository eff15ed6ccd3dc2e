package webhook

import "github.com/obot-ai/obotai-webhook-example/internal/model/webchat"

// Message is one fulfillment message. Index is assigned 1-based during
// response post-processing and reflects the message's position.
type Message struct {
	Payload webchat.Payload `json:"payload"`
	Index   int             `json:"index,omitempty"`
}

// Response is the outbound fulfillment response document.
type Response struct {
	FulfillmentMessages []Message `json:"fulfillmentMessages"`
	OutputContexts      []Context `json:"outputContexts"`
}

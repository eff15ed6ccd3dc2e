// Package conversation implements the webhook conversation engine: a
// session-backed state machine that turns each inbound utterance into a
// fulfillment response document.
package conversation

import (
	"context"
	"errors"
	"log"

	"github.com/obot-ai/obotai-webhook-example/internal/model/catalog"
	"github.com/obot-ai/obotai-webhook-example/internal/model/session"
	"github.com/obot-ai/obotai-webhook-example/internal/model/webhook"
)

var (
	ErrMissingSessionID    = errors.New("session id is required")
	ErrMissingLanguageCode = errors.New("language code is required")
)

// Lifespans above this are extended so the platform's own expiry
// heuristics do not drop long-lived contexts mid-conversation.
const (
	lifespanKeepThreshold = 10
	lifespanKeepValue     = 20
)

// Engine drives the conversation state machine over persisted sessions.
type Engine struct {
	sessions session.Store
	catalog  catalog.Store
}

// NewEngine wires the engine to its session store and dataset.
func NewEngine(sessions session.Store, catalog catalog.Store) *Engine {
	return &Engine{
		sessions: sessions,
		catalog:  catalog,
	}
}

// Handle runs one webhook turn: it loads or creates the session for the
// request identity, dispatches on the current state, post-processes the
// produced document (message indices, context lifespans) and finally
// saves or deletes the session. Exactly one of save/delete happens per
// successful turn; on error the stored session is left untouched.
func (e *Engine) Handle(ctx context.Context, req *webhook.Request) (*webhook.Response, error) {
	languageCode := req.QueryResult.LanguageCode
	if languageCode == "" {
		return nil, ErrMissingLanguageCode
	}

	payload := req.OriginalDetectIntentRequest.Payload
	if payload.SessionID == "" {
		return nil, ErrMissingSessionID
	}

	sess, created, err := e.loadOrCreate(ctx, payload.SessionID, languageCode)
	if err != nil {
		return nil, err
	}
	if created {
		log.Printf("[conversation] new session platform=%s lang=%s", payload.Platform, languageCode)
	}

	t := &turn{
		engine:  e,
		req:     req,
		session: sess,
		created: created,
		query:   req.QueryResult.QueryText,
	}

	resp, err := t.dispatch()
	if err != nil {
		return nil, err
	}

	assignIndices(resp)
	if resp.OutputContexts == nil {
		resp.OutputContexts = clampContexts(req.QueryResult.OutputContexts)
	}

	if t.deleteSession {
		if err := e.sessions.Delete(ctx, sess.ID, sess.LanguageCode); err != nil {
			return nil, err
		}
	} else if err := e.sessions.Set(ctx, sess); err != nil {
		return nil, err
	}

	return resp, nil
}

func (e *Engine) loadOrCreate(ctx context.Context, id, languageCode string) (*session.Session, bool, error) {
	stored, err := e.sessions.Get(ctx, id, languageCode)
	if err != nil {
		return nil, false, err
	}
	if stored != nil {
		return stored, false, nil
	}
	return session.New(id, languageCode), true, nil
}

// assignIndices stamps each fulfillment message with its 1-based position.
func assignIndices(resp *webhook.Response) {
	for i := range resp.FulfillmentMessages {
		resp.FulfillmentMessages[i].Index = i + 1
	}
}

// clampContexts copies the inbound contexts, rewriting any lifespan
// above the keep threshold to the keep value.
func clampContexts(in []webhook.Context) []webhook.Context {
	out := make([]webhook.Context, len(in))
	copy(out, in)
	for i := range out {
		if out[i].LifespanCount > lifespanKeepThreshold {
			out[i].LifespanCount = lifespanKeepValue
		}
	}
	return out
}

package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obot-ai/obotai-webhook-example/internal/model/catalog"
	"github.com/obot-ai/obotai-webhook-example/internal/model/session"
	"github.com/obot-ai/obotai-webhook-example/internal/model/webhook"
)

func newTestEngine() (*Engine, *session.MemoryStore) {
	store := session.NewMemoryStore()
	return NewEngine(store, catalog.NewMemoryStore(catalog.Seed())), store
}

func newRequest(sessionID, languageCode, queryText string, contexts ...webhook.Context) *webhook.Request {
	return &webhook.Request{
		QueryResult: webhook.QueryResult{
			QueryText:      queryText,
			LanguageCode:   languageCode,
			OutputContexts: contexts,
		},
		OriginalDetectIntentRequest: webhook.OriginalDetectIntentRequest{
			Payload: webhook.OriginalPayload{
				Platform:  "web_chat_v2",
				SessionID: sessionID,
			},
		},
	}
}

func seedSession(t *testing.T, store *session.MemoryStore, state session.State, conditions ...session.Condition) {
	t.Helper()
	sess := session.New("sess-1", "en")
	sess.State = state
	sess.Conditions = conditions
	require.NoError(t, store.Set(context.Background(), sess))
}

func storedSession(t *testing.T, store *session.MemoryStore) *session.Session {
	t.Helper()
	sess, err := store.Get(context.Background(), "sess-1", "en")
	require.NoError(t, err)
	return sess
}

func messageTexts(msg webhook.Message) []string {
	return msg.Payload.WebChatV2.Texts
}

func TestHandleMissingIdentity(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Handle(ctx, newRequest("", "en", "hello"))
	assert.ErrorIs(t, err, ErrMissingSessionID)

	_, err = engine.Handle(ctx, newRequest("sess-1", "", "hello"))
	assert.ErrorIs(t, err, ErrMissingLanguageCode)
}

func TestHandleFreshSessionRendersIntroAndMenu(t *testing.T) {
	engine, store := newTestEngine()

	resp, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "hello"))
	require.NoError(t, err)

	require.Len(t, resp.FulfillmentMessages, 2)
	assert.Equal(t, []string{"This is a sample webhook."}, messageTexts(resp.FulfillmentMessages[0]))

	card := resp.FulfillmentMessages[1].Payload.WebChatV2.Cards
	require.Len(t, card, 1)
	assert.Equal(t, "Please select an item.", card[0].Title)
	require.Len(t, card[0].Buttons, 3)
	assert.Equal(t, "text input", card[0].Buttons[0].BtnText)
	assert.Equal(t, "item selection", card[0].Buttons[1].BtnText)
	assert.Equal(t, "exit", card[0].Buttons[2].BtnText)

	sess := storedSession(t, store)
	require.NotNil(t, sess)
	assert.Equal(t, session.StateStart, sess.State)
}

func TestHandleAssignsMessageIndices(t *testing.T) {
	engine, _ := newTestEngine()

	resp, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "hello"))
	require.NoError(t, err)

	for i, msg := range resp.FulfillmentMessages {
		assert.Equal(t, i+1, msg.Index)
	}
}

func TestHandleStartPromptIsIdempotent(t *testing.T) {
	engine, store := newTestEngine()
	seedSession(t, store, session.StateStart)
	ctx := context.Background()

	first, err := engine.Handle(ctx, newRequest("sess-1", "en", "what?"))
	require.NoError(t, err)
	second, err := engine.Handle(ctx, newRequest("sess-1", "en", "what?"))
	require.NoError(t, err)

	assert.Equal(t, first.FulfillmentMessages, second.FulfillmentMessages)
	assert.Equal(t, session.StateStart, storedSession(t, store).State)
}

func TestHandleNonTriggerUtterancesPreserveState(t *testing.T) {
	cases := []struct {
		state session.State
		query string
	}{
		{session.StateStart, "hello"},
		{session.StateInputText, "   "},
		{session.StateInputText, "text input"},
		{session.StateSelectItem, "Meat"},
		{session.StateResult, "hello"},
	}

	for _, tc := range cases {
		engine, store := newTestEngine()
		seedSession(t, store, tc.state)

		_, err := engine.Handle(context.Background(), newRequest("sess-1", "en", tc.query))
		require.NoError(t, err)
		assert.Equal(t, tc.state, storedSession(t, store).State, "state %q query %q", tc.state, tc.query)
	}
}

func TestHandleStartToInputText(t *testing.T) {
	engine, store := newTestEngine()
	seedSession(t, store, session.StateStart)

	resp, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "text input"))
	require.NoError(t, err)

	require.Len(t, resp.FulfillmentMessages, 1)
	assert.Equal(t, []string{"Please enter text."}, messageTexts(resp.FulfillmentMessages[0]))
	assert.Equal(t, session.StateInputText, storedSession(t, store).State)
}

func TestHandleInputTextAddsConditionAndShowsResult(t *testing.T) {
	engine, store := newTestEngine()
	seedSession(t, store, session.StateInputText)

	resp, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "Apple"))
	require.NoError(t, err)

	sess := storedSession(t, store)
	assert.Equal(t, session.StateResult, sess.State)
	assert.Equal(t, []session.Condition{{Field: "name", Value: "Apple"}}, sess.Conditions)

	require.Len(t, resp.FulfillmentMessages, 3)
	counts := messageTexts(resp.FulfillmentMessages[0])
	require.Len(t, counts, 1)
	assert.True(t, strings.HasPrefix(counts[0], "Found 1 records"), "got %q", counts[0])
	assert.Contains(t, counts[0], "name: Apple")

	cards := resp.FulfillmentMessages[1].Payload.WebChatV2.Cards
	require.Len(t, cards, 1)
	assert.Equal(t, "Apple", cards[0].Title)
	assert.Equal(t, "Kind: Fruits", cards[0].Subtitle)

	carousel := resp.FulfillmentMessages[2].Payload
	require.NotNil(t, carousel.ResponseType)
	assert.Equal(t, 501, *carousel.ResponseType)
}

func TestHandleInputTextTrimsWhitespace(t *testing.T) {
	engine, store := newTestEngine()
	seedSession(t, store, session.StateInputText)

	_, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "  Apple  "))
	require.NoError(t, err)

	assert.Equal(t, []session.Condition{{Field: "name", Value: "Apple"}}, storedSession(t, store).Conditions)
}

func TestHandleSelectItem(t *testing.T) {
	engine, store := newTestEngine()
	seedSession(t, store, session.StateSelectItem)

	resp, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "Fruits"))
	require.NoError(t, err)

	sess := storedSession(t, store)
	assert.Equal(t, session.StateResult, sess.State)
	assert.Equal(t, []session.Condition{{Field: "kind", Value: "Fruits"}}, sess.Conditions)

	cards := resp.FulfillmentMessages[1].Payload.WebChatV2.Cards
	require.Len(t, cards, 2)
	assert.Equal(t, "Apple", cards[0].Title)
	assert.Equal(t, "Banana", cards[1].Title)
}

func TestHandleSelectItemPromptOffersKindsAndControls(t *testing.T) {
	engine, store := newTestEngine()
	seedSession(t, store, session.StateSelectItem)

	resp, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "nope"))
	require.NoError(t, err)

	require.Len(t, resp.FulfillmentMessages, 1)
	cards := resp.FulfillmentMessages[0].Payload.WebChatV2.Cards
	require.Len(t, cards, 1)

	var labels []string
	for _, b := range cards[0].Buttons {
		labels = append(labels, b.BtnText)
	}
	assert.Equal(t, []string{"Fruits", "Vegetables", "return to start", "exit"}, labels)
}

func TestHandleResultAccumulatesConditions(t *testing.T) {
	engine, store := newTestEngine()
	seedSession(t, store, session.StateResult, session.Condition{Field: "kind", Value: "Fruits"})
	ctx := context.Background()

	// Ask for another condition, then feed a name through the text flow.
	_, err := engine.Handle(ctx, newRequest("sess-1", "en", "add search condition"))
	require.NoError(t, err)
	assert.Equal(t, session.StateStart, storedSession(t, store).State)

	_, err = engine.Handle(ctx, newRequest("sess-1", "en", "text input"))
	require.NoError(t, err)

	resp, err := engine.Handle(ctx, newRequest("sess-1", "en", "Potato"))
	require.NoError(t, err)

	sess := storedSession(t, store)
	assert.Equal(t, []session.Condition{
		{Field: "kind", Value: "Fruits"},
		{Field: "name", Value: "Potato"},
	}, sess.Conditions)

	cards := resp.FulfillmentMessages[1].Payload.WebChatV2.Cards
	require.Len(t, cards, 3)
	assert.Equal(t, "Apple", cards[0].Title)
	assert.Equal(t, "Banana", cards[1].Title)
	assert.Equal(t, "Potato", cards[2].Title)
}

func TestHandleBackToStartResetsConditions(t *testing.T) {
	engine, store := newTestEngine()
	seedSession(t, store, session.StateResult, session.Condition{Field: "kind", Value: "Fruits"})

	resp, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "return to start"))
	require.NoError(t, err)

	sess := storedSession(t, store)
	assert.Equal(t, session.StateStart, sess.State)
	assert.Empty(t, sess.Conditions)

	// Restart renders the intro again.
	assert.Equal(t, []string{"This is a sample webhook."}, messageTexts(resp.FulfillmentMessages[0]))
}

func TestHandleExitDeletesSessionAndExpiresContexts(t *testing.T) {
	engine, store := newTestEngine()
	seedSession(t, store, session.StateResult, session.Condition{Field: "kind", Value: "Fruits"})

	resp, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "exit",
		webhook.Context{Name: "ctx-a", LifespanCount: 15},
		webhook.Context{Name: "ctx-b", LifespanCount: 3},
	))
	require.NoError(t, err)

	require.Len(t, resp.FulfillmentMessages, 1)
	assert.Equal(t, []string{"The webhook context has been closed."}, messageTexts(resp.FulfillmentMessages[0]))

	require.Len(t, resp.OutputContexts, 2)
	for _, c := range resp.OutputContexts {
		assert.Equal(t, 0, c.LifespanCount)
	}

	assert.Nil(t, storedSession(t, store))
}

func TestHandleExitWorksOnFreshSession(t *testing.T) {
	engine, store := newTestEngine()

	resp, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "exit"))
	require.NoError(t, err)

	assert.Equal(t, []string{"The webhook context has been closed."}, messageTexts(resp.FulfillmentMessages[0]))
	assert.Nil(t, storedSession(t, store))
}

func TestHandleClampsLongLivedContexts(t *testing.T) {
	engine, _ := newTestEngine()

	resp, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "hello",
		webhook.Context{Name: "long", LifespanCount: 11},
		webhook.Context{Name: "short", LifespanCount: 10},
		webhook.Context{Name: "zero"},
	))
	require.NoError(t, err)

	require.Len(t, resp.OutputContexts, 3)
	assert.Equal(t, 20, resp.OutputContexts[0].LifespanCount)
	assert.Equal(t, 10, resp.OutputContexts[1].LifespanCount)
	assert.Equal(t, 0, resp.OutputContexts[2].LifespanCount)
}

func TestHandleUnknownStateFails(t *testing.T) {
	engine, store := newTestEngine()
	seedSession(t, store, session.State("DANCING"))

	_, err := engine.Handle(context.Background(), newRequest("sess-1", "en", "hello"))
	assert.ErrorIs(t, err, session.ErrUnknownState)

	// The corrupt session is left untouched for inspection.
	assert.NotNil(t, storedSession(t, store))
}

func TestHandleSessionsIsolatedPerLanguage(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Handle(ctx, newRequest("sess-1", "en", "hello"))
	require.NoError(t, err)

	// The same platform session in another language starts fresh.
	resp, err := engine.Handle(ctx, newRequest("sess-1", "ja", "hello"))
	require.NoError(t, err)
	assert.Equal(t, []string{"This is a sample webhook."}, messageTexts(resp.FulfillmentMessages[0]))
}

func TestHandleFullConversation(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	// Fresh session: intro plus menu.
	resp, err := engine.Handle(ctx, newRequest("sess-1", "en", "hi"))
	require.NoError(t, err)
	require.Len(t, resp.FulfillmentMessages, 2)

	// Pick item selection, then a category.
	_, err = engine.Handle(ctx, newRequest("sess-1", "en", "item selection"))
	require.NoError(t, err)

	resp, err = engine.Handle(ctx, newRequest("sess-1", "en", "Vegetables"))
	require.NoError(t, err)
	cards := resp.FulfillmentMessages[1].Payload.WebChatV2.Cards
	require.Len(t, cards, 3)

	// Leave.
	_, err = engine.Handle(ctx, newRequest("sess-1", "en", "exit"))
	require.NoError(t, err)
	assert.Nil(t, storedSession(t, store))
}

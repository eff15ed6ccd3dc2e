package conversation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/obot-ai/obotai-webhook-example/internal/model/catalog"
	"github.com/obot-ai/obotai-webhook-example/internal/model/session"
	"github.com/obot-ai/obotai-webhook-example/internal/model/webchat"
	"github.com/obot-ai/obotai-webhook-example/internal/model/webhook"
)

// Utterance keywords recognized by the state machine.
const (
	KeywordExit         = "exit"
	KeywordBackToStart  = "return to start"
	KeywordTextInput    = "text input"
	KeywordSelectItem   = "item selection"
	KeywordAddCondition = "add search condition"
)

// Bot copy.
const (
	introText         = "This is a sample webhook."
	selectPromptTitle = "Please select an item."
	inputPromptText   = "Please enter text."
	exitText          = "The webhook context has been closed."
)

// turn carries the mutable state of one webhook invocation.
type turn struct {
	engine        *Engine
	req           *webhook.Request
	session       *session.Session
	created       bool
	query         string
	deleteSession bool
}

// dispatch picks the transition for this turn. The exit and restart
// keywords win over whatever state the session is in; otherwise the
// stored state decides.
func (t *turn) dispatch() (*webhook.Response, error) {
	switch t.query {
	case KeywordExit:
		return t.exit(), nil
	case KeywordBackToStart:
		return t.backToStart(), nil
	}

	switch st := t.session.State; st {
	case session.StateNone:
		return t.stateInitial(), nil
	case session.StateStart:
		return t.stateStart(), nil
	case session.StateInputText:
		return t.stateInputText(), nil
	case session.StateSelectItem:
		return t.stateSelectItem(), nil
	case session.StateResult:
		return t.stateResult(), nil
	default:
		return nil, fmt.Errorf("%w: %q", session.ErrUnknownState, st)
	}
}

// stateInitial handles the first turn of a fresh session: it enters
// START and prepends an introductory message to whatever START renders.
func (t *turn) stateInitial() *webhook.Response {
	t.session.State = session.StateStart
	resp := t.stateStart()
	intro := webhook.Message{Payload: webchat.Text(introText)}
	resp.FulfillmentMessages = append([]webhook.Message{intro}, resp.FulfillmentMessages...)
	return resp
}

// stateStart offers the top-level menu until an advancing keyword arrives.
func (t *turn) stateStart() *webhook.Response {
	switch t.query {
	case KeywordTextInput:
		t.session.State = session.StateInputText
		return t.stateInputText()
	case KeywordSelectItem:
		t.session.State = session.StateSelectItem
		return t.stateSelectItem()
	}

	card := webchat.Card{Title: selectPromptTitle}
	for _, value := range []string{KeywordTextInput, KeywordSelectItem, KeywordExit} {
		card.Buttons = append(card.Buttons, webchat.PostBackButton(value))
	}
	return &webhook.Response{
		FulfillmentMessages: []webhook.Message{
			{Payload: webchat.Cards(card)},
		},
	}
}

// stateInputText waits for free text; a non-empty utterance becomes a
// name condition and moves the conversation to the result state.
func (t *turn) stateInputText() *webhook.Response {
	text := strings.TrimSpace(t.query)
	if text != "" && text != KeywordTextInput {
		t.session.AddCondition(catalog.FieldName, text, false)
		t.session.State = session.StateResult
		return t.stateResult()
	}
	return &webhook.Response{
		FulfillmentMessages: []webhook.Message{
			{Payload: webchat.Text(inputPromptText)},
		},
	}
}

// stateSelectItem waits for one of the category labels; anything else
// re-renders the selection card.
func (t *turn) stateSelectItem() *webhook.Response {
	kinds := t.engine.catalog.Kinds()
	if slices.Contains(kinds, t.query) {
		t.session.AddCondition(catalog.FieldKind, t.query, false)
		t.session.State = session.StateResult
		return t.stateResult()
	}

	card := webchat.Card{Title: selectPromptTitle}
	for _, value := range append(kinds, KeywordBackToStart, KeywordExit) {
		card.Buttons = append(card.Buttons, webchat.PostBackButton(value))
	}
	return &webhook.Response{
		FulfillmentMessages: []webhook.Message{
			{Payload: webchat.Cards(card)},
		},
	}
}

// stateResult runs the search over the accumulated conditions and
// renders the matches, unless the user asks for another condition.
func (t *turn) stateResult() *webhook.Response {
	if t.query == KeywordAddCondition {
		t.session.State = session.StateStart
		return t.stateStart()
	}

	conditions := t.session.Conditions
	matches := search(t.engine.catalog.List(), conditions)
	return renderSearchResult(matches, conditions)
}

func renderSearchResult(matches []catalog.Record, conditions []session.Condition) *webhook.Response {
	lines := make([]string, 0, len(conditions)+1)
	lines = append(lines, fmt.Sprintf("Found %d records (OR search).", len(matches)))
	for _, cond := range conditions {
		lines = append(lines, cond.Field+": "+cond.Value)
	}

	resultCards := make([]webchat.Card, 0, len(matches))
	for _, record := range matches {
		resultCards = append(resultCards, webchat.Card{
			Title:    record.Name,
			Subtitle: "Kind: " + record.Kind,
		})
	}

	next := webchat.Card{Title: selectPromptTitle}
	for _, value := range []string{KeywordAddCondition, KeywordBackToStart, KeywordExit} {
		next.Buttons = append(next.Buttons, webchat.PostBackButton(value))
	}

	return &webhook.Response{
		FulfillmentMessages: []webhook.Message{
			{Payload: webchat.Text(strings.Join(lines, "\n"))},
			{Payload: webchat.Cards(resultCards...)},
			{Payload: webchat.Carousel(next)},
		},
	}
}

// backToStart clears the accumulated conditions and restarts the flow
// as if the session were fresh.
func (t *turn) backToStart() *webhook.Response {
	t.session.ResetConditions()
	return t.stateInitial()
}

// exit flags the session for deletion and forces every inbound context
// to expire immediately.
func (t *turn) exit() *webhook.Response {
	t.deleteSession = true

	contexts := make([]webhook.Context, len(t.req.QueryResult.OutputContexts))
	copy(contexts, t.req.QueryResult.OutputContexts)
	for i := range contexts {
		contexts[i].LifespanCount = 0
	}

	return &webhook.Response{
		FulfillmentMessages: []webhook.Message{
			{Payload: webchat.Text(exitText)},
		},
		OutputContexts: contexts,
	}
}

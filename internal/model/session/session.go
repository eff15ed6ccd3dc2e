package session

import "errors"

// State marks the position of a conversation in the webhook state
// machine. The zero value means the session has not entered the flow yet.
type State string

const (
	StateNone       State = ""
	StateStart      State = "START"
	StateInputText  State = "INPUT_TEXT"
	StateSelectItem State = "SELECT_ITEM"
	StateResult     State = "RESULT"
)

// ErrUnknownState reports a stored state value outside the enumeration,
// which means the persisted session is corrupt.
var ErrUnknownState = errors.New("unknown conversation state")

// Known reports whether s is a member of the state enumeration.
func (s State) Known() bool {
	switch s {
	case StateNone, StateStart, StateInputText, StateSelectItem, StateResult:
		return true
	}
	return false
}

// Condition is one search filter accumulated across turns.
type Condition struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Session holds the per-conversation, per-language state carried between
// webhook turns. Sessions are kept per language code, so the same
// platform session id may run one conversation per language.
type Session struct {
	ID           string      `json:"id"`
	LanguageCode string      `json:"languageCode"`
	State        State       `json:"state,omitempty"`
	Conditions   []Condition `json:"conditions,omitempty"`
}

// New returns an empty, unpersisted session for the given identity.
func New(id, languageCode string) *Session {
	return &Session{
		ID:           id,
		LanguageCode: languageCode,
	}
}

// AddCondition appends a search condition. With overwrite set, every
// existing condition on the same field is replaced in place instead,
// preserving the order of first occurrence.
func (s *Session) AddCondition(field, value string, overwrite bool) {
	if overwrite {
		replaced := false
		for i := range s.Conditions {
			if s.Conditions[i].Field == field {
				s.Conditions[i].Value = value
				replaced = true
			}
		}
		if replaced {
			return
		}
	}
	s.Conditions = append(s.Conditions, Condition{Field: field, Value: value})
}

// ResetConditions drops all accumulated search conditions.
func (s *Session) ResetConditions() {
	s.Conditions = nil
}

// Package bot implements the conversational core: an ordered chain of
// deterministic intent matchers over the course catalog, with a
// language model fallback for everything the chain does not recognize.
package bot

import (
	"github.com/cursosjujuy/camila/internal/catalog"
	"github.com/cursosjujuy/camila/internal/session"
	"github.com/cursosjujuy/camila/internal/textutil"
)

// Turn carries one inbound message through the matcher chain. The
// session is the working copy for this turn: matchers mutate it freely
// and the processor persists it once a reply is produced.
type Turn struct {
	ChatID  string
	Text    string // raw message, trimmed
	Norm    string // normalized (lowercase, no diacritics)
	Session *session.Session
}

// NewTurn builds a turn from a raw message and its session copy.
func NewTurn(chatID, text string, sess *session.Session) *Turn {
	return &Turn{
		ChatID:  chatID,
		Text:    text,
		Norm:    textutil.Normalize(text),
		Session: sess,
	}
}

// Matcher is one step of the intent chain. Match returns the reply and
// true when the matcher claims the turn; the chain stops at the first
// claim. Matchers answer from the catalog only and must not block.
type Matcher interface {
	// Name identifies the matcher in logs and metrics.
	Name() string

	// Match inspects the turn and produces a reply if it applies.
	Match(turn *Turn) (string, bool)
}

// Registry holds the matcher chain in evaluation order.
type Registry struct {
	matchers []Matcher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		matchers: make([]Matcher, 0),
	}
}

// Register appends a matcher to the chain. Order of registration is
// order of evaluation.
func (r *Registry) Register(m Matcher) {
	r.matchers = append(r.matchers, m)
}

// Dispatch runs the chain and returns the first matcher's reply along
// with its name. ok is false when no matcher claimed the turn.
func (r *Registry) Dispatch(turn *Turn) (reply, name string, ok bool) {
	for _, m := range r.matchers {
		if reply, matched := m.Match(turn); matched {
			return reply, m.Name(), true
		}
	}
	return "", "", false
}

// NewDefaultRegistry wires the full chain in its fixed order. The
// order is part of the bot's observable behavior: earlier matchers
// shadow later ones on overlapping messages.
func NewDefaultRegistry(cat *catalog.Catalog) *Registry {
	r := NewRegistry()
	r.Register(NewShortcutMatcher(cat))
	r.Register(NewSingleLocalityMatcher(cat))
	r.Register(NewLocalityKeywordMatcher(cat))
	r.Register(NewExactTitleMatcher(cat))
	r.Register(NewPendingChoiceMatcher(cat))
	r.Register(NewTopicFAQMatcher(cat))
	return r
}

package expand

import "strings"

// Engine runs the matcher and planner with a fixed set of options.
// The zero value is ready to use and behaves like the package functions.
type Engine struct {
	normalize Normalizer
	// foldKeys runs keys through normalize too; the default only lowercases them.
	foldKeys bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithNormalizer replaces Normalize for every comparison the engine makes.
func WithNormalizer(n Normalizer) Option {
	return func(e *Engine) {
		if n != nil {
			e.normalize = n
			e.foldKeys = true
		}
	}
}

// New returns an Engine configured with opts.
func New(opts ...Option) *Engine {
	e := &Engine{normalize: Normalize}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

func (e *Engine) normalizer() Normalizer {
	if e == nil || e.normalize == nil {
		return Normalize
	}
	return e.normalize
}

// keyForm is the form a key is compared in against the typed last word.
func (e *Engine) keyForm(key string) string {
	if e != nil && e.foldKeys {
		return e.normalizer()(key)
	}
	return strings.ToLower(key)
}

// Window derives the match keys for text at cursor with the engine's normalizer.
func (e *Engine) Window(text string, cursor int) Window {
	return extractWindow(text, cursor, e.normalizer())
}

// FindMatches returns pointers into triggers for every entry matching at cursor.
func FindMatches(triggers []Trigger, text string, cursor int) []*Trigger {
	return defaultEngine.FindMatches(triggers, text, cursor)
}

// Explain is FindMatches with the strategies that fired for each candidate.
func Explain(triggers []Trigger, text string, cursor int) []Match {
	return defaultEngine.Explain(triggers, text, cursor)
}

// PlanReplacement computes the edit that replaces the input at cursor with expansion.
func PlanReplacement(triggers []Trigger, text string, cursor int, expansion string) Plan {
	return defaultEngine.PlanReplacement(triggers, text, cursor, expansion)
}

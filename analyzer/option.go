package analyzer

import "github.com/viant/buildprune/inspector/info"

type Option func(*Analyzer)

// Propagation controls how far invalidation travels along import edges
type Propagation string

const (
	// PropagationSingle invalidates direct importers of seed outdated units only
	PropagationSingle Propagation = "single"
	// PropagationFixpoint repeats the pass until no further unit is invalidated
	PropagationFixpoint Propagation = "fixpoint"
)

// WithSeparator sets the nested unit separator
func WithSeparator(separator string) Option {
	return func(a *Analyzer) {
		a.separator = separator
	}
}

// WithPropagation sets the propagation mode
func WithPropagation(propagation Propagation) Option {
	return func(a *Analyzer) {
		if propagation != "" {
			a.propagation = propagation
		}
	}
}

func defaultAnalyzer() *Analyzer {
	return &Analyzer{separator: info.NestedSeparator, propagation: PropagationSingle}
}

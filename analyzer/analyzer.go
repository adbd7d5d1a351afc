package analyzer

import (
	"context"
	"log/slog"

	slogcontext "github.com/veqryn/slog-context"
	"github.com/viant/buildprune/inspector/graph"
	"github.com/viant/buildprune/inspector/info"
)

// Analyzer classifies compiled artifacts as outdated relative to their sources
type Analyzer struct {
	separator   string
	propagation Propagation
}

// New creates an analyzer
func New(options ...Option) *Analyzer {
	a := defaultAnalyzer()
	for _, option := range options {
		option(a)
	}
	return a
}

// Analyze computes the final outdated set: seed classification followed by propagation
func (a *Analyzer) Analyze(ctx context.Context, sources *graph.SourceIndex, artifacts *graph.ArtifactIndex) *Plan {
	seed := a.Classify(ctx, sources, artifacts)
	return a.Propagate(ctx, seed, sources, artifacts)
}

// Classify returns the seed outdated set: artifacts whose source is gone (orphaned) or newer (stale)
func (a *Analyzer) Classify(ctx context.Context, sources *graph.SourceIndex, artifacts *graph.ArtifactIndex) []*Entry {
	logger := slogcontext.FromCtx(ctx)
	var seed []*Entry
	for _, unit := range artifacts.Units() {
		artifact, _ := artifacts.Get(unit)
		source, ok := sources.Get(artifact.Outer(a.separator))
		switch {
		case !ok:
			seed = append(seed, &Entry{Unit: unit, Path: artifact.Path, Reason: ReasonOrphaned})
		case artifact.ModTime.Before(source.ModTime):
			seed = append(seed, &Entry{Unit: unit, Path: artifact.Path, Reason: ReasonStale})
		default:
			continue
		}
		logger.Debug("seed outdated",
			slog.String("unit", unit.String()),
			slog.Bool("nested", unit.IsNested(a.separator)),
			slog.String("reason", string(seed[len(seed)-1].Reason)))
	}
	return seed
}

// Propagate extends the seed with artifacts of every source unit importing an outdated unit.
// With PropagationSingle only the seed is followed; units added by the pass are not followed further.
func (a *Analyzer) Propagate(ctx context.Context, seed []*Entry, sources *graph.SourceIndex, artifacts *graph.ArtifactIndex) *Plan {
	logger := slogcontext.FromCtx(ctx)
	outdated := make(map[info.UnitName]*Entry, len(seed))
	frontier := info.UnitSet{}
	for _, entry := range seed {
		outdated[entry.Unit] = entry
		frontier.Add(entry.Unit.Outer(a.separator))
	}
	byOuter := artifacts.ByOuter(a.separator)

	for round := 1; len(frontier) > 0; round++ {
		next := info.UnitSet{}
		for _, unit := range sources.Units() {
			source, _ := sources.Get(unit)
			via, ok := source.DependsOn(frontier)
			if !ok {
				continue
			}
			compiled := byOuter[unit]
			if len(compiled) == 0 {
				logger.Debug("importer has no artifact", slog.String("unit", unit.String()), slog.String("via", via.String()))
				continue
			}
			for _, artifactUnit := range compiled {
				if _, done := outdated[artifactUnit]; done {
					continue
				}
				artifact, _ := artifacts.Get(artifactUnit)
				outdated[artifactUnit] = &Entry{Unit: artifactUnit, Path: artifact.Path, Reason: ReasonTransitive, Via: via}
				next.Add(unit)
			}
		}
		logger.Debug("propagation round", slog.Int("round", round), slog.Int("added", len(next)))
		if a.propagation != PropagationFixpoint {
			break
		}
		frontier = next
	}
	return newPlan(outdated)
}

// Package buildprune removes compiled artifacts that are out of date relative to their sources,
// including artifacts whose sources import an outdated unit.
//
// A run assumes exclusive access to the artifact roots; two concurrent runs against the same
// artifact root are not supported.
package buildprune

import (
	"context"
	"io"
	"log/slog"

	slogcontext "github.com/veqryn/slog-context"
	"github.com/viant/afs"
	"github.com/viant/buildprune/analyzer"
	"github.com/viant/buildprune/config"
	"github.com/viant/buildprune/inspector"
	"github.com/viant/buildprune/inspector/graph"
	"github.com/viant/buildprune/inspector/repository"
	"github.com/viant/buildprune/remover"
)

// Service runs staleness detection and removal for a resolved configuration
type Service struct {
	config  *config.Config
	fs      afs.Service
	factory *inspector.Factory
	remover *remover.Remover
}

// New creates a service; cfg has to be resolved, progress lines are written to out
func New(cfg *config.Config, out io.Writer) *Service {
	fs := afs.New()
	return &Service{
		config:  cfg,
		fs:      fs,
		factory: inspector.NewFactory(cfg.InspectorConfig(), fs),
		remover: remover.New(fs, out),
	}
}

// Run computes the outdated artifact set and removes it, or only renders it in dry run mode
func (s *Service) Run(ctx context.Context) (*analyzer.Plan, error) {
	plan, err := s.Plan(ctx)
	if err != nil {
		return nil, err
	}
	if s.config.DryRun {
		return plan, s.remover.Render(plan)
	}
	return plan, s.remover.Remove(ctx, plan)
}

// Plan scans sources and artifacts and computes the outdated artifact set without side effects
func (s *Service) Plan(ctx context.Context) (*analyzer.Plan, error) {
	scanner := repository.NewScanner(s.fs)
	if err := scanner.EnsureRoots(ctx, s.config.Sources.Roots); err != nil {
		return nil, err
	}
	if err := scanner.EnsureRoots(ctx, s.config.Artifacts.Roots); err != nil {
		return nil, err
	}
	sources, err := s.indexSources(ctx)
	if err != nil {
		return nil, err
	}
	artifacts, err := s.indexArtifacts(ctx)
	if err != nil {
		return nil, err
	}
	a := analyzer.New(
		analyzer.WithSeparator(s.config.Separator),
		analyzer.WithPropagation(analyzer.Propagation(s.config.Propagation)),
	)
	plan := a.Analyze(ctx, sources, artifacts)
	slogcontext.FromCtx(ctx).Info("analysis completed",
		slog.Int("sources", sources.Len()),
		slog.Int("artifacts", artifacts.Len()),
		slog.Int("outdated", plan.Len()))
	return plan, nil
}

func (s *Service) indexSources(ctx context.Context) (*graph.SourceIndex, error) {
	logger := slogcontext.FromCtx(ctx)
	sourceInspector, err := s.factory.SourceInspector(s.config.Sources.Extension)
	if err != nil {
		return nil, err
	}
	files, err := repository.NewScanner(s.fs, s.config.Sources.Exclude...).Scan(ctx, s.config.Sources.Roots, s.config.Sources.Extension)
	if err != nil {
		return nil, err
	}
	index := graph.NewSourceIndex()
	for _, file := range files {
		source, err := sourceInspector.InspectFile(ctx, file)
		if err != nil {
			return nil, err
		}
		if collision := index.Put(source); collision != nil {
			logger.Warn("source unit declared twice, keeping the last one",
				slog.String("unit", collision.Unit.String()),
				slog.String("previous", collision.Previous),
				slog.String("current", collision.Current),
				slog.Bool("identical", collision.Identical))
		}
	}
	logger.Debug("sources indexed", slog.Int("files", len(files)), slog.Int("units", index.Len()))
	return index, nil
}

func (s *Service) indexArtifacts(ctx context.Context) (*graph.ArtifactIndex, error) {
	logger := slogcontext.FromCtx(ctx)
	artifactInspector := s.factory.ArtifactInspector()
	files, err := repository.NewScanner(s.fs, s.config.Artifacts.Exclude...).Scan(ctx, s.config.Artifacts.Roots, s.config.Artifacts.Extension)
	if err != nil {
		return nil, err
	}
	index := graph.NewArtifactIndex()
	var size int64
	for _, file := range files {
		size += file.Size
		artifact, err := artifactInspector.InspectFile(file)
		if err != nil {
			return nil, err
		}
		if collision := index.Put(artifact); collision != nil {
			logger.Warn("artifact unit found twice, keeping the last one",
				slog.String("unit", collision.Unit.String()),
				slog.String("previous", collision.Previous),
				slog.String("current", collision.Current))
		}
	}
	logger.Debug("artifacts indexed", slog.Int("files", len(files)), slog.Int("units", index.Len()), slog.Int64("bytes", size))
	return index, nil
}

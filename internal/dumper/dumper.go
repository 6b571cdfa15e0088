// Package dumper orchestrates the experiment -> run -> trace traversal
// and accumulates the dump document.
package dumper

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tracedump/tracedump/internal/classifier"
	"github.com/tracedump/tracedump/internal/domain"
)

// Fetcher defines the tracking-server operations the dumper depends on.
// Implemented by internal/client.
type Fetcher interface {
	ListExperiments(ctx context.Context) ([]domain.Experiment, error)
	GetExperiment(ctx context.Context, experimentID string) (*domain.Experiment, error)
	SearchRuns(ctx context.Context, experimentID string) ([]domain.Run, error)
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	GetMetricHistory(ctx context.Context, runID string) ([]domain.Metric, error)
	ListArtifacts(ctx context.Context, runID string) ([]domain.Artifact, error)
	DownloadArtifact(ctx context.Context, runID, path string) (string, error)
	SearchTraces(ctx context.Context, runID string) ([]json.RawMessage, error)
}

// Options selects which traversal the dumper performs.
type Options struct {
	// Scope selects the traversal variant.
	Scope domain.DumpScope

	// ExperimentID is required for ScopeExperiment.
	ExperimentID string

	// TrackingURL is stamped into the dump metadata.
	TrackingURL string

	// Concurrency bounds the per-run fan-out within one experiment.
	// 1 (the default) reproduces the sequential traversal exactly.
	// Document order is independent of the setting: results are placed
	// by index, so order always equals the API response order.
	Concurrency int
}

// Service walks the tracking server and builds the dump document. All
// sub-fetch failures are isolated: a failing run never aborts its
// siblings, and a failing sub-call leaves the corresponding field empty.
type Service struct {
	fetcher    Fetcher
	classifier *classifier.Classifier
	logger     *zap.Logger
	opts       Options
}

// NewService creates a dumper service.
func NewService(fetcher Fetcher, cls *classifier.Classifier, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Scope == "" {
		opts.Scope = domain.ScopeAll
	}
	return &Service{
		fetcher:    fetcher,
		classifier: cls,
		logger:     logger,
		opts:       opts,
	}
}

// Dump performs the traversal for the configured scope.
func (s *Service) Dump(ctx context.Context) (*domain.Dump, error) {
	switch s.opts.Scope {
	case domain.ScopeExperiment:
		return s.dumpExperiment(ctx)
	case domain.ScopeLangGraph:
		return s.dumpLangGraph(ctx)
	default:
		return s.dumpAll(ctx)
	}
}

func (s *Service) newMetadata() domain.DumpMetadata {
	return domain.DumpMetadata{
		TrackingURL:   s.opts.TrackingURL,
		DumpTimestamp: time.Now().UTC(),
	}
}

// dumpAll walks every experiment on the server.
func (s *Service) dumpAll(ctx context.Context) (*domain.Dump, error) {
	s.logger.Info("starting trace dump", zap.String("scope", string(domain.ScopeAll)))

	dump := &domain.Dump{
		Metadata:    s.newMetadata(),
		Experiments: []domain.ExperimentDump{},
	}

	experiments := s.listExperiments(ctx)
	dump.Metadata.TotalExperiments = len(experiments)

	for _, experiment := range experiments {
		expLogger := s.logger.With(
			zap.String("experiment_id", experiment.ExperimentID),
			zap.String("experiment_name", experiment.Name),
		)
		expLogger.Info("processing experiment")

		runs := s.searchRuns(ctx, experiment.ExperimentID)
		dump.Metadata.TotalRuns += len(runs)

		runDumps := s.processRuns(ctx, runs)
		for _, runDump := range runDumps {
			dump.Metadata.TotalTraces += len(runDump.Traces)
		}

		dump.Experiments = append(dump.Experiments, domain.ExperimentDump{
			ExperimentInfo: experiment,
			Runs:           runDumps,
		})
	}

	s.logger.Info("trace dump completed",
		zap.Int("experiments", dump.Metadata.TotalExperiments),
		zap.Int("runs", dump.Metadata.TotalRuns),
		zap.Int("traces", dump.Metadata.TotalTraces),
	)
	return dump, nil
}

// dumpExperiment walks the runs of a single experiment.
func (s *Service) dumpExperiment(ctx context.Context) (*domain.Dump, error) {
	s.logger.Info("starting trace dump",
		zap.String("scope", string(domain.ScopeExperiment)),
		zap.String("experiment_id", s.opts.ExperimentID),
	)

	experiment, err := s.fetcher.GetExperiment(ctx, s.opts.ExperimentID)
	if err != nil {
		s.logger.Error("experiment not found",
			zap.String("experiment_id", s.opts.ExperimentID),
			zap.Error(err),
		)
		return nil, err
	}

	dump := &domain.Dump{
		Metadata:       s.newMetadata(),
		ExperimentInfo: experiment,
		Runs:           []domain.RunDump{},
	}
	dump.Metadata.ExperimentID = experiment.ExperimentID
	dump.Metadata.ExperimentName = experiment.Name

	runs := s.searchRuns(ctx, experiment.ExperimentID)
	dump.Metadata.TotalRuns = len(runs)

	dump.Runs = s.processRuns(ctx, runs)
	for _, runDump := range dump.Runs {
		dump.Metadata.TotalTraces += len(runDump.Traces)
	}

	s.logger.Info("trace dump completed",
		zap.Int("runs", dump.Metadata.TotalRuns),
		zap.Int("traces", dump.Metadata.TotalTraces),
	)
	return dump, nil
}

// dumpLangGraph walks every experiment but keeps only runs the classifier
// gates as trace-bearing, skipping per-run detail calls for the rest.
func (s *Service) dumpLangGraph(ctx context.Context) (*domain.Dump, error) {
	s.logger.Info("starting trace dump", zap.String("scope", string(domain.ScopeLangGraph)))

	dump := &domain.Dump{
		Metadata:        s.newMetadata(),
		LangGraphTraces: []domain.RunDump{},
	}

	experiments := s.listExperiments(ctx)
	dump.Metadata.TotalExperiments = len(experiments)

	for i := range experiments {
		experiment := experiments[i]
		s.logger.Info("processing experiment",
			zap.String("experiment_id", experiment.ExperimentID),
			zap.String("experiment_name", experiment.Name),
		)

		runs := s.searchRuns(ctx, experiment.ExperimentID)
		dump.Metadata.TotalRuns += len(runs)

		for _, run := range runs {
			runDump, ok := s.processGatedRun(ctx, run)
			if !ok {
				continue
			}
			runDump.ExperimentInfo = &experiment
			dump.Metadata.TotalLangGraphTraces += len(runDump.Traces)
			dump.LangGraphTraces = append(dump.LangGraphTraces, runDump)
		}
	}

	s.logger.Info("trace dump completed",
		zap.Int("experiments", dump.Metadata.TotalExperiments),
		zap.Int("runs", dump.Metadata.TotalRuns),
		zap.Int("traces", dump.Metadata.TotalLangGraphTraces),
	)
	return dump, nil
}

// listExperiments fetches all experiments, logging and returning an empty
// slice on failure.
func (s *Service) listExperiments(ctx context.Context) []domain.Experiment {
	experiments, err := s.fetcher.ListExperiments(ctx)
	if err != nil {
		s.logger.Error("failed to list experiments", zap.Error(err))
		return nil
	}
	s.logger.Info("found experiments", zap.Int("count", len(experiments)))
	return experiments
}

// searchRuns fetches the first page of runs for an experiment, logging
// and returning an empty slice on failure.
func (s *Service) searchRuns(ctx context.Context, experimentID string) []domain.Run {
	runs, err := s.fetcher.SearchRuns(ctx, experimentID)
	if err != nil {
		s.logger.Error("failed to search runs",
			zap.String("experiment_id", experimentID),
			zap.Error(err),
		)
		return nil
	}
	s.logger.Info("found runs",
		zap.String("experiment_id", experimentID),
		zap.Int("count", len(runs)),
	)
	return runs
}

// processRuns classifies every run of one experiment. Runs may be
// processed concurrently but results land by index, so document order
// always equals the search-response order.
func (s *Service) processRuns(ctx context.Context, runs []domain.Run) []domain.RunDump {
	runDumps := make([]domain.RunDump, len(runs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i := range runs {
		i := i
		g.Go(func() error {
			runDumps[i] = s.processRun(gctx, runs[i])
			return nil
		})
	}
	// Workers never return errors; fetch failures are recorded per run.
	_ = g.Wait()

	return runDumps
}

// processRun fetches the run detail and runs the classifier passes. A
// failed detail fetch keeps the run in the document with the search-
// result info and an empty trace list.
func (s *Service) processRun(ctx context.Context, run domain.Run) domain.RunDump {
	runLogger := s.logger.With(
		zap.String("run_id", run.Info.RunID),
		zap.String("run_name", run.Info.RunName),
	)
	runLogger.Info("processing run")

	runDump := domain.RunDump{
		RunInfo: run,
		Traces:  []domain.TraceRecord{},
	}

	full, err := s.fetcher.GetRun(ctx, run.Info.RunID)
	if err != nil {
		runLogger.Error("failed to get run detail, skipping trace extraction", zap.Error(err))
		return runDump
	}

	runDump.RunDetails = s.fetchDetails(ctx, full, runLogger)
	runDump.Traces = s.classifier.Classify(ctx, full, runDump.RunDetails.Artifacts)

	runLogger.Info("classified run", zap.Int("traces", len(runDump.Traces)))
	return runDump
}

// processGatedRun is the langgraph-scope variant: the run detail is
// fetched first and the run is dropped entirely unless the classifier
// gates it as trace-bearing.
func (s *Service) processGatedRun(ctx context.Context, run domain.Run) (domain.RunDump, bool) {
	runLogger := s.logger.With(
		zap.String("run_id", run.Info.RunID),
		zap.String("run_name", run.Info.RunName),
	)

	full, err := s.fetcher.GetRun(ctx, run.Info.RunID)
	if err != nil {
		runLogger.Error("failed to get run detail, skipping run", zap.Error(err))
		return domain.RunDump{}, false
	}

	if !s.classifier.IsTraceRun(full) {
		runLogger.Debug("no trace indicators, skipping run")
		return domain.RunDump{}, false
	}

	runDump := domain.RunDump{
		RunInfo: run,
		Traces:  []domain.TraceRecord{},
	}
	runDump.RunDetails = s.fetchDetails(ctx, full, runLogger)
	runDump.Traces = s.classifier.Classify(ctx, full, runDump.RunDetails.Artifacts)

	runLogger.Info("found trace-bearing run", zap.Int("traces", len(runDump.Traces)))
	return runDump, true
}

// fetchDetails collects the non-critical per-run data. Failures leave the
// corresponding field empty rather than aborting the run.
func (s *Service) fetchDetails(ctx context.Context, run *domain.Run, runLogger *zap.Logger) *domain.RunDetails {
	details := &domain.RunDetails{Run: run}

	metrics, err := s.fetcher.GetMetricHistory(ctx, run.Info.RunID)
	if err != nil {
		runLogger.Warn("failed to get metric history", zap.Error(err))
	} else {
		details.Metrics = metrics
	}

	artifacts, err := s.fetcher.ListArtifacts(ctx, run.Info.RunID)
	if err != nil {
		runLogger.Warn("failed to list artifacts", zap.Error(err))
	} else {
		details.Artifacts = artifacts
	}

	return details
}

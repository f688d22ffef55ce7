package app

import (
	"context"
	"time"

	"godem/adapters/ensemble"
	"godem/domain/dem"
	"godem/domain/emission"
	"godem/internal"
	"godem/internal/config"
	apperrors "godem/internal/errors"
	"godem/internal/mcmc"
	"godem/ports"
)

// InversionService loads observed lines, runs the staged inversion and
// persists the result
type InversionService struct {
	source  ports.LineSource
	store   ports.ResultStore
	rngPort ports.RNGPort
	logger  *internal.Logger
	cfg     config.InversionConfig
}

// InvertRequest names the input tables, the output workbook and the bins
type InvertRequest struct {
	ContFuncs   string
	Intensities string
	Output      string // empty skips saving
	Bins        *dem.TempBins
}

// InvertResult is the outcome of one inversion run
type InvertResult struct {
	Output    *dem.Output      `json:"-"`
	Summary   []dem.BinSummary `json:"summary"`
	Lines     int              `json:"lines"`
	Walkers   int              `json:"walkers"`
	RuntimeMs int64            `json:"runtime_ms"`
}

// NewInversionService creates an inversion service
func NewInversionService(source ports.LineSource, store ports.ResultStore, rngPort ports.RNGPort, logger *internal.Logger, cfg config.InversionConfig) *InversionService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &InversionService{
		source:  source,
		store:   store,
		rngPort: rngPort,
		logger:  logger,
		cfg:     cfg,
	}
}

// Options maps the run configuration onto driver options
func (s *InversionService) Options() mcmc.Options {
	return mcmc.Options{
		NSteps:        s.cfg.NSteps,
		NWalkers:      s.cfg.NWalkers,
		WarmupSteps:   s.cfg.WarmupSteps,
		WarmupWalkers: s.cfg.WarmupWalkers,
		WarmupTail:    s.cfg.WarmupTail,
		InitialGuess:  s.cfg.InitialGuess,
		Jitter:        s.cfg.Jitter,
		Seed:          s.cfg.Seed,
	}
}

// Factory builds the sampler factory for the configured scale, worker
// bound and progress reporting
func (s *InversionService) Factory() *ensemble.Factory {
	opts := []ensemble.Option{ensemble.WithScale(s.cfg.StretchScale)}
	if s.cfg.Workers > 0 {
		opts = append(opts, ensemble.WithWorkers(s.cfg.Workers))
	}
	if s.cfg.Progress {
		opts = append(opts, ensemble.WithProgress(s.reportProgress))
	}
	return ensemble.NewFactory(opts...)
}

func (s *InversionService) reportProgress(done, total int) {
	every := total / 10
	if every < 1 {
		every = 1
	}
	if done%every == 0 || done == total {
		s.logger.Info("[Sampler] step %d/%d", done, total)
	}
}

// Invert runs the staged inversion of lines over bins
func (s *InversionService) Invert(ctx context.Context, lines []*emission.EmissionLine, bins *dem.TempBins) (*dem.Output, error) {
	inv := mcmc.NewInverter(s.Factory(), s.rngPort, s.logger, s.Options())
	out, err := inv.Predict(ctx, lines, bins)
	if err != nil {
		return nil, apperrors.InversionFailed(err)
	}
	return out, nil
}

// Run loads the lines named by req, inverts them and saves the result
func (s *InversionService) Run(ctx context.Context, req InvertRequest) (*InvertResult, error) {
	start := time.Now()

	lines, err := s.source.LoadLines(req.ContFuncs, req.Intensities)
	if err != nil {
		return nil, apperrors.Wrap(err, "loading lines")
	}

	out, err := s.Invert(ctx, lines, req.Bins)
	if err != nil {
		return nil, err
	}

	if req.Output != "" {
		if err := s.store.SaveOutput(req.Output, out); err != nil {
			return nil, apperrors.Wrap(err, "saving result")
		}
	}

	summary, err := out.Summary()
	if err != nil {
		return nil, apperrors.Wrap(err, "summarising result")
	}
	walkers, _ := out.Shape()
	return &InvertResult{
		Output:    out,
		Summary:   summary,
		Lines:     len(lines),
		Walkers:   walkers,
		RuntimeMs: time.Since(start).Milliseconds(),
	}, nil
}

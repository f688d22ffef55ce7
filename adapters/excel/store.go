package excel

import (
	"godem/domain/dem"
	"godem/domain/emission"
	"godem/internal"
	"godem/ports"
)

var (
	_ ports.ResultStore = (*Store)(nil)
	_ ports.LineSource  = (*Store)(nil)
)

// Store loads lines from and saves results to spreadsheet files
type Store struct {
	logger *internal.Logger
	opts   []emission.DiscreteOption
}

// NewStore creates a store. opts apply to every loaded contribution function.
func NewStore(logger *internal.Logger, opts ...emission.DiscreteOption) *Store {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Store{logger: logger, opts: opts}
}

// LoadLines joins a contribution function table with an intensity table by
// line name, in the intensity table's order.
func (s *Store) LoadLines(contFuncPath, intensityPath string) ([]*emission.EmissionLine, error) {
	cfs, err := LoadContFuncs(contFuncPath, s.logger, s.opts...)
	if err != nil {
		return nil, err
	}
	order, obs, err := LoadIntensities(intensityPath, s.logger)
	if err != nil {
		return nil, err
	}
	lines, err := BuildLines(order, cfs, obs)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[Store] Loaded %d lines (%d contribution functions available)", len(lines), len(cfs))
	return lines, nil
}

func (s *Store) SaveOutput(path string, out *dem.Output) error {
	if err := SaveOutput(path, out); err != nil {
		return err
	}
	walkers, bins := out.Shape()
	s.logger.Info("[Store] Saved %d x %d samples to %s", walkers, bins, path)
	return nil
}

func (s *Store) LoadOutput(path string) (*dem.Output, error) {
	return LoadOutput(path)
}

package ports

import (
	"godem/domain/dem"
	"godem/domain/emission"
)

// ResultStore persists inversion results
type ResultStore interface {
	SaveOutput(path string, out *dem.Output) error
	LoadOutput(path string) (*dem.Output, error)
}

// LineSource loads observed emission lines from contribution function and
// intensity tables
type LineSource interface {
	LoadLines(contFuncPath, intensityPath string) ([]*emission.EmissionLine, error)
}

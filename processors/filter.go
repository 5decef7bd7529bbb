package processors

import (
	"errors"
	"fmt"

	"github.com/birdayz/sigchain/node"
)

const FilterType = "Filter"

var ErrInvalidBand = errors.New("low cut must be below high cut")

// Filter passes its channels through unchanged; the band is a parameter for
// the signal path outside the graph.
type Filter struct {
	node.Base
}

func NewFilter(name string) *Filter {
	return &Filter{Base: node.NewBase(FilterType, name)}
}

func (f *Filter) IsReady() error {
	low, err := floatParam(&f.Base, "lowcut", 300)
	if err != nil {
		return err
	}
	high, err := floatParam(&f.Base, "highcut", 6000)
	if err != nil {
		return err
	}
	if low >= high {
		return fmt.Errorf("%w: %s (%d) %.1f >= %.1f", ErrInvalidBand, f.Name(), f.ID(), low, high)
	}
	return nil
}

var _ node.Readier = (*Filter)(nil)

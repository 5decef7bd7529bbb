package node

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType  = errors.New("unknown processor type")
	ErrNilProcessor = errors.New("factory returned no processor")
)

// Description names a processor to create and, when restoring a saved chain,
// its previous id and parameters.
type Description struct {
	Type   string            `json:"type"`
	Name   string            `json:"name,omitempty"`
	NodeID int               `json:"nodeId,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

func (d Description) String() string {
	if d.NodeID > 0 {
		return fmt.Sprintf("%s(%d)", d.Type, d.NodeID)
	}
	return d.Type
}

// Factory instantiates processors from descriptions.
type Factory interface {
	Create(desc Description) (Processor, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(desc Description) (Processor, error)

func (f FactoryFunc) Create(desc Description) (Processor, error) {
	return f(desc)
}

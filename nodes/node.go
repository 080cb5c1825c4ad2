package nodes

import "github.com/t2bot/url-media-nodes/common/rcontext"

// Outputs are positional, matching Schema.Outputs.
type Outputs []interface{}

type Node interface {
	Schema() Schema
	Execute(ctx rcontext.RequestContext, inputs Inputs) (Outputs, error)
}

// Fingerprinter lets the host skip re-running a node whose inputs haven't changed.
type Fingerprinter interface {
	Fingerprint(inputs Inputs) string
}

// InputValidator runs after coercion and before Execute.
type InputValidator interface {
	ValidateInputs(inputs Inputs) error
}

package brain

import "errors"

var (
	ErrNoRoot        = errors.New("tree config has no root")
	ErrUnknownNode   = errors.New("unknown node")
	ErrUnknownType   = errors.New("unsupported node type")
	ErrUnknownLeaf   = errors.New("unknown leaf")
	ErrMissingChild  = errors.New("node requires a child")
	ErrCycle         = errors.New("node cycle")
	ErrInvalidParams = errors.New("invalid params")
)

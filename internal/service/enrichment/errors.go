package enrichment

import "errors"

var (
	ErrInternal = errors.New("enrichment: internal error")
)

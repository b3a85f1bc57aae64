package decisions

import "errors"

var ErrNotFound = errors.New("decision not found")

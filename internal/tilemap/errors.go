package tilemap

import "errors"

// ErrInvalidCell is the sentinel behind spec §7's InvalidCell: a coordinate
// outside the grid. Construction fails explicitly; lookups return absent.
var ErrInvalidCell = errors.New("invalid cell")

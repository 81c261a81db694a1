package annotate

import "errors"

// ErrNoSegments indicates a transcription carried no renderable segments.
var ErrNoSegments = errors.New("no segments to render")

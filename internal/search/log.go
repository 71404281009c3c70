package search

import "github.com/roasbeef/vidlens/internal/build"

// Subsystem tag used for all search engine log lines.
const Subsystem = "SRCH"

var log = build.NewSubLogger(Subsystem)

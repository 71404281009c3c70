package enrich

import "github.com/roasbeef/vidlens/internal/build"

// Subsystem tag used for all enrichment log lines.
const Subsystem = "NRCH"

var log = build.NewSubLogger(Subsystem)

package wordstats

import "github.com/roasbeef/vidlens/internal/build"

// Subsystem tag used for all word statistics log lines.
const Subsystem = "WDST"

var log = build.NewSubLogger(Subsystem)

package actor

import "github.com/roasbeef/vidlens/internal/build"

// Subsystem tag used for all actor runtime log lines.
const Subsystem = "ACTR"

var log = build.NewSubLogger(Subsystem)

package web

import "github.com/roasbeef/vidlens/internal/build"

// Subsystem tag used for all web layer log lines.
const Subsystem = "WEBS"

var log = build.NewSubLogger(Subsystem)

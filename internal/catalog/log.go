package catalog

import "github.com/roasbeef/vidlens/internal/build"

// Subsystem tag used for all catalog log lines.
const Subsystem = "CTLG"

var log = build.NewSubLogger(Subsystem)

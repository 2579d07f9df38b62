package calcgame

import _ "embed"

// Version is the release of the calcgame module, read from the VERSION file.
//
//go:embed VERSION
var Version string

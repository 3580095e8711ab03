package chain

import "github.com/btcsuite/btclog"

// log is the package-level logger used by the chain package. It defaults
// to a disabled logger so importers who don't care about chain-level
// logging pay nothing; cmd/coind wires a real backend in via UseLogger.
var log btclog.Logger

// UseLogger sets the package-wide logger used by the chain package.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

func init() {
	DisableLog()
}

package chain

import "github.com/btcsuite/btcd/btcutil"

// FormatAmount renders a balance or transfer value for log lines via
// btcutil.Amount, which knows how to print a fixed-point quantity without
// the caller hand-rolling its own formatting.
func FormatAmount(value uint64) string {
	return btcutil.Amount(value).String()
}

// Copyright (c) 2025 The coin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// ProtocolVersion is the version string a node announces in its Version
// message. There is exactly one version string; the protocol package does
// not compare a peer's announced version against it and acknowledges any
// Version message it receives.
const ProtocolVersion = "coin/1"

// Network names an instance of the ledger, the way a magic number
// partitions unrelated peer-to-peer swarms from each other. No message
// envelope carries a Network value and nothing in this repository checks
// one, so messages are not rejected by network.
type Network uint32

const (
	// MainNet is the only network a deployed node actually runs against.
	MainNet Network = 0xC01C01

	// TestNet is reserved for integration tests that want an explicit,
	// non-default network identifier.
	TestNet Network = 0x74657374
)

var networkStrings = map[Network]string{
	MainNet: "MainNet",
	TestNet: "TestNet",
}

// String returns the Network in human-readable form.
func (n Network) String() string {
	if s, ok := networkStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Network (%#x)", uint32(n))
}

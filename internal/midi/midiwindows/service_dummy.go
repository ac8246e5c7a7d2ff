//go:build !windows
// +build !windows

package midiwindows

import (
	"fmt"

	"github.com/leandrodaf/midiin/sdk/contracts"
)

// NewService reports that winmm is unavailable on this platform.
func NewService(options *contracts.ClientOptions) (contracts.MIDIService, error) {
	options.Logger.Warn("winmm input service requested on a non-windows system")
	return nil, fmt.Errorf("winmm is not available on this platform")
}

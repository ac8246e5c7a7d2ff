//go:build !linux
// +build !linux

package midilinux

import (
	"fmt"

	"github.com/leandrodaf/midiin/sdk/contracts"
)

// NewService reports that rtmidi is unavailable on this platform.
func NewService(options *contracts.ClientOptions) (contracts.MIDIService, error) {
	options.Logger.Warn("rtmidi input service requested on a non-linux system")
	return nil, fmt.Errorf("rtmidi is not available on this platform")
}

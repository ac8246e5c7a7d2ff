//go:build !darwin
// +build !darwin

package mididarwin

import (
	"fmt"

	"github.com/leandrodaf/midiin/sdk/contracts"
)

// NewService reports that CoreMIDI is unavailable on this platform.
func NewService(options *contracts.ClientOptions) (contracts.MIDIService, error) {
	options.Logger.Warn("CoreMIDI input service requested on a non-darwin system")
	return nil, fmt.Errorf("coremidi is not available on this platform")
}

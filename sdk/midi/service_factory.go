package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/midiin/internal/midi/mididarwin"
	"github.com/leandrodaf/midiin/internal/midi/midilinux"
	"github.com/leandrodaf/midiin/internal/midi/midiwindows"
	"github.com/leandrodaf/midiin/sdk/contracts"
)

// ErrUnsupportedOS is returned when no MIDI service exists for the
// current operating system.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// serviceInitializers maps OS names to corresponding MIDI service initializers.
var serviceInitializers = map[string]func(*contracts.ClientOptions) (contracts.MIDIService, error){
	"darwin":  mididarwin.NewService,  // macOS, CoreMIDI.
	"windows": midiwindows.NewService, // Windows, winmm.
	"linux":   midilinux.NewService,   // Linux, rtmidi over ALSA.
}

// newService returns the injected service when one was configured,
// otherwise initializes the platform service for the current OS.
func newService(opts *contracts.ClientOptions) (contracts.MIDIService, error) {
	if opts.Service != nil {
		return opts.Service, nil
	}
	if initializer, exists := serviceInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}

package midi

import (
	"github.com/leandrodaf/midiin/internal/inport"
	"github.com/leandrodaf/midiin/sdk/contracts"
)

// NewInPort creates a MIDI input port with the specified options. The
// platform service is picked by operating system unless WithService
// supplied one. A port whose OS registration failed is still returned
// (the failure is logged); its Connect calls fail with ErrNotConnected.
func NewInPort(opts ...contracts.Option) (contracts.InPort, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	service, err := newService(&options)
	if err != nil {
		return nil, err
	}

	return inport.New(service, &options), nil
}

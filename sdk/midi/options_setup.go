package midi

import (
	"github.com/leandrodaf/midiin/internal/logger"
	"github.com/leandrodaf/midiin/sdk/contracts"
)

const (
	defaultClientName = "Go MIDI In"
	defaultPortName   = "Go MIDI input port"
)

// applyDefaultOptions sets default values for ClientOptions not
// explicitly provided: a zap logger at InfoLevel and default OS
// client/port names.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.PortConfig == nil {
		options.PortConfig = &contracts.PortConfig{}
	}
	if options.PortConfig.ClientName == "" {
		options.PortConfig.ClientName = defaultClientName
	}
	if options.PortConfig.PortName == "" {
		options.PortConfig.PortName = defaultPortName
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}

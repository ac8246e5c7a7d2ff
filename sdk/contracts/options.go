package contracts

// PortConfig names the OS-level client and input port this library
// registers with the MIDI subsystem.
type PortConfig struct {
	ClientName string // Name of the MIDI client registration.
	PortName   string // Name of the input port.
}

// ClientOptions defines the configuration options for a MIDI input port.
type ClientOptions struct {
	Logger     Logger      // Logger for lifecycle and decode diagnostics.
	LogLevel   LogLevel    // Minimum level the logger emits.
	PortConfig *PortConfig // OS client/port naming.
	Service    MIDIService // Optional service override; nil selects by OS.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the MIDI input port.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the minimum logging level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithPortConfig sets the OS client and port names.
func WithPortConfig(config PortConfig) Option {
	return func(opts *ClientOptions) {
		opts.PortConfig = &config
	}
}

// WithService overrides the platform MIDI service. Used to inject a fake
// subsystem in tests or a custom backend.
func WithService(s MIDIService) Option {
	return func(opts *ClientOptions) {
		opts.Service = s
	}
}

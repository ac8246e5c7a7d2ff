package contracts

import "errors"

// Error kinds surfaced by connection-lifecycle operations. Decode-path and
// notification-path failures are logged only, since they originate from OS
// callbacks with no caller to report to.
var (
	// ErrNotConnected means an operation that requires an active
	// connection was attempted without one, including Connect on a port
	// whose client or input port was never successfully created.
	ErrNotConnected = errors.New("midi: not connected")
	// ErrFailedToConnect means the device id was invalid, no source
	// existed at that index, or the OS bind call failed.
	ErrFailedToConnect = errors.New("midi: failed to connect")
)

// InPort manages one logical MIDI input connection: at most one bound
// source at a time, decoded event delivery, and device-list change
// notifications. Implementations are safe for concurrent use from caller
// goroutines and OS callback contexts.
type InPort interface {
	// ListDevices returns the current sources in enumeration order. The
	// list is rebuilt live on every call; a source whose name lookup
	// fails is logged and skipped. An empty list is not an error.
	ListDevices() ([]DeviceInfo, error)

	// Connect binds the port to the source identified by deviceID (a
	// numeric index from ListDevices). If already connected it fully
	// disconnects first. The connection is running on return.
	Connect(deviceID string) error

	// Disconnect unbinds and clears the connection identity. Calling it
	// while not connected is a no-op.
	Disconnect() error

	// IsConnected reports whether a source is held and a device id is set.
	IsConnected() bool

	// DeviceID returns the connected device id, or "" when disconnected.
	DeviceID() string

	// OnEvents installs the consumer callback for decoded event batches,
	// replacing any previous one. It may be called while connected.
	OnEvents(fn EventHandler)

	// OnDevicesChanged subscribes fn to device-list change notifications.
	// All subscribers are invoked on every change.
	OnDevicesChanged(fn func())

	// Close disconnects if needed and releases the OS client and port.
	// The port is unusable afterwards.
	Close() error
}

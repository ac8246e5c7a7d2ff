package contracts

import "errors"

// ErrNoConnection is returned by MIDIService.UnbindSource when no binding
// existed. Callers treat it as benign: the port ends up unbound either way.
var ErrNoConnection = errors.New("midi: port was not bound to source")

// Opaque handles into the OS MIDI subsystem. Zero is never a valid ref.
type (
	ClientRef uint32
	PortRef   uint32
	SourceRef uint32
)

// Packet is one unit of raw MIDI data as delivered by the OS, possibly
// one message of several bytes. Services deliver packets in batches,
// preserving OS delivery order.
type Packet struct {
	Timestamp uint64
	Data      []byte
}

// NotificationType classifies structural changes in the OS MIDI setup.
type NotificationType int

const (
	// SourceAdded reports a new source in the OS source table.
	SourceAdded NotificationType = iota
	// SourceRemoved reports that Notification.Source is gone.
	SourceRemoved
	// PropertyChanged reports a property change on Notification.Object.
	PropertyChanged
)

// ObjectType identifies the kind of OS MIDI object a property change
// refers to.
type ObjectType int

const (
	ObjectOther ObjectType = iota
	ObjectDevice
	ObjectSource
)

// Property identifies which property of an OS MIDI object changed.
type Property int

const (
	PropertyOther Property = iota
	PropertyName
	PropertyDisplayName
)

// Notification is one structural or property change event from the OS.
type Notification struct {
	Type     NotificationType
	Source   SourceRef  // Set for SourceAdded/SourceRemoved.
	Object   ObjectType // Set for PropertyChanged.
	Property Property   // Set for PropertyChanged.
}

// NotificationHandler receives structural notifications. It runs on the
// service's dispatch goroutine, concurrently with caller threads.
type NotificationHandler func(n Notification)

// PacketHandler receives one batch of raw packets per OS delivery.
type PacketHandler func(packets []Packet)

// MIDIService is the narrow capability set this library needs from an OS
// MIDI subsystem. Platform packages implement it over CoreMIDI, winmm and
// rtmidi; tests inject a fake via WithService.
type MIDIService interface {
	// CreateClient registers the application with the MIDI subsystem and
	// installs the structural-notification handler.
	CreateClient(name string, onNotify NotificationHandler) (ClientRef, error)

	// CreateInputPort creates the port through which packets arrive and
	// installs the receive handler. Requires a client from CreateClient.
	CreateInputPort(client ClientRef, name string, onReceive PacketHandler) (PortRef, error)

	// SourceCount returns the current number of sources in the OS table.
	SourceCount() (int, error)

	// Source resolves the source at the given zero-based index. A zero
	// ref with nil error means no source exists at that index.
	Source(index int) (SourceRef, error)

	// SourceDisplayName looks up the display name of a source.
	SourceDisplayName(src SourceRef) (string, error)

	// BindSource starts delivery from src to the port's receive handler.
	BindSource(port PortRef, src SourceRef) error

	// UnbindSource stops delivery from src. Returns ErrNoConnection when
	// no binding existed.
	UnbindSource(port PortRef, src SourceRef) error

	// Close releases the client and port and stops all delivery.
	Close() error
}

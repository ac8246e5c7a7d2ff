package inport

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/midiin/sdk/contracts"
)

// Port manages one logical MIDI input connection over a
// contracts.MIDIService. It holds at most one bound source, decodes raw
// packets into events inside the service's receive callback, and fans out
// device-list change notifications.
//
// The receive and notification callbacks run on service-owned goroutines
// concurrently with caller goroutines, so the connection state lives
// behind one mutex and the consumer callback behind an atomic value; the
// receive path never takes the state lock.
type Port struct {
	logger  contracts.Logger
	service contracts.MIDIService

	onEvents atomic.Value // contracts.EventHandler

	subMu       sync.Mutex
	subscribers []func()

	mu       sync.Mutex // guards everything below
	client   contracts.ClientRef
	port     contracts.PortRef
	source   contracts.SourceRef
	deviceID string
	running  bool
	closed   bool
}

var _ contracts.InPort = (*Port)(nil)

// New registers the OS client and input port and returns a Port. Creation
// failures are logged, not returned: a Port whose registration failed
// stays constructed but every Connect on it fails with ErrNotConnected,
// since the service offers no retry for a failed registration.
func New(service contracts.MIDIService, options *contracts.ClientOptions) *Port {
	p := &Port{
		logger:  options.Logger,
		service: service,
	}
	p.onEvents.Store(contracts.EventHandler(nil))

	cfg := options.PortConfig
	client, err := service.CreateClient(cfg.ClientName, p.handleNotification)
	if err != nil {
		p.logger.Error("failed to create midi input client",
			p.logger.Field().Error("error", err))
		return p
	}
	p.client = client

	port, err := service.CreateInputPort(client, cfg.PortName, p.handlePackets)
	if err != nil {
		p.logger.Error("failed to create midi input port",
			p.logger.Field().Error("error", err))
		return p
	}
	p.port = port
	return p
}

// ListDevices queries the live OS source table, index 0 through count-1,
// and returns the sources in enumeration order. A source whose name
// lookup fails is logged and skipped rather than failing the whole call.
func (p *Port) ListDevices() ([]contracts.DeviceInfo, error) {
	count, err := p.service.SourceCount()
	if err != nil {
		return nil, fmt.Errorf("counting midi sources: %w", err)
	}

	devices := make([]contracts.DeviceInfo, 0, count)
	for i := 0; i < count; i++ {
		src, err := p.service.Source(i)
		if err != nil || src == 0 {
			p.logger.Warn("failed to resolve midi source",
				p.logger.Field().Int("index", i))
			continue
		}
		name, err := p.service.SourceDisplayName(src)
		if err != nil {
			p.logger.Warn("failed to read midi source display name",
				p.logger.Field().Int("index", i),
				p.logger.Field().Error("error", err))
			continue
		}
		devices = append(devices, contracts.DeviceInfo{
			ID:   strconv.Itoa(i),
			Name: name,
		})
	}
	return devices, nil
}

// Connect binds the port to the source at the given index, disconnecting
// first if a connection is active. On success the connection is running.
func (p *Port) Connect(deviceID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isConnectedLocked() {
		p.disconnectLocked()
	}

	if p.closed || p.client == 0 || p.port == 0 {
		return fmt.Errorf("%w: midi input not initialized", contracts.ErrNotConnected)
	}

	index, err := strconv.Atoi(deviceID)
	if err != nil {
		return fmt.Errorf("%w: invalid device id %q", contracts.ErrFailedToConnect, deviceID)
	}

	src, err := p.service.Source(index)
	if err != nil || src == 0 {
		return fmt.Errorf("%w: no source at index %d", contracts.ErrFailedToConnect, index)
	}

	p.source = src
	p.deviceID = deviceID

	if err := p.runLocked(); err != nil {
		return err
	}

	p.logger.Info("midi device connected",
		p.logger.Field().String("deviceID", deviceID))
	return nil
}

// Disconnect unbinds and clears the connection identity. A no-op when
// not connected.
func (p *Port) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnectLocked()
	return nil
}

func (p *Port) disconnectLocked() {
	if !p.isConnectedLocked() {
		return
	}
	p.stopLocked()
	p.source = 0
	p.deviceID = ""
}

// runLocked asks the service to start delivery from the held source.
func (p *Port) runLocked() error {
	if !p.isConnectedLocked() {
		return contracts.ErrNotConnected
	}
	if err := p.service.BindSource(p.port, p.source); err != nil {
		p.running = false
		return fmt.Errorf("%w: %v", contracts.ErrFailedToConnect, err)
	}
	p.running = true
	return nil
}

// stopLocked stops delivery. A service report that no binding existed is
// benign; any other failure is logged. running is cleared either way.
func (p *Port) stopLocked() {
	if !p.isConnectedLocked() {
		p.logger.Error("midi port is not connected")
		return
	}
	switch err := p.service.UnbindSource(p.port, p.source); {
	case err == nil:
	case errors.Is(err, contracts.ErrNoConnection):
		p.logger.Info("midi port was not started")
	default:
		p.logger.Error("failed to unbind midi port",
			p.logger.Field().Error("error", err))
	}
	p.running = false
}

// IsConnected reports whether a source is held and a device id is set.
func (p *Port) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isConnectedLocked()
}

func (p *Port) isConnectedLocked() bool {
	return p.source != 0 && p.deviceID != ""
}

// DeviceID returns the connected device id, or "" when disconnected.
func (p *Port) DeviceID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deviceID
}

// OnEvents installs the consumer callback, replacing any previous one.
func (p *Port) OnEvents(fn contracts.EventHandler) {
	p.onEvents.Store(fn)
}

// OnDevicesChanged subscribes fn to device-list change notifications.
func (p *Port) OnDevicesChanged(fn func()) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

// Close disconnects if needed and releases the OS client and port.
func (p *Port) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.disconnectLocked()
	p.client = 0
	p.port = 0
	p.mu.Unlock()

	return p.service.Close()
}

// handlePackets is the receive callback: it decodes one delivered batch
// into events and hands them to the consumer as a single ordered batch.
// Packets of 1..MaxMessageBytes bytes decode to exactly one event with
// the packet timestamp preserved; empty packets are skipped silently;
// oversized packets are logged and skipped with no partial decode.
func (p *Port) handlePackets(packets []contracts.Packet) {
	events := make([]contracts.Event, 0, len(packets))
	for _, pkt := range packets {
		n := len(pkt.Data)
		switch {
		case n == 0:
		case n > contracts.MaxMessageBytes:
			p.logger.Warn("unsupported midi message size",
				p.logger.Field().Int("bytes", n))
		default:
			e := contracts.Event{
				Timestamp: pkt.Timestamp,
				Status:    pkt.Data[0],
				Len:       uint8(n),
			}
			copy(e.Data[:], pkt.Data[1:])
			events = append(events, e)
		}
	}
	if len(events) == 0 {
		return
	}
	if fn, ok := p.onEvents.Load().(contracts.EventHandler); ok && fn != nil {
		fn(events)
	}
}

// handleNotification is the structural-notification callback. When the
// connected source is removed, the disconnect happens before subscribers
// hear about the device-list change: nobody may observe "devices changed"
// while still appearing connected to a gone source.
func (p *Port) handleNotification(n contracts.Notification) {
	switch n.Type {
	case contracts.SourceAdded:
		p.notifyDevicesChanged()

	case contracts.SourceRemoved:
		p.mu.Lock()
		if p.isConnectedLocked() && n.Source == p.source {
			p.disconnectLocked()
		}
		p.mu.Unlock()
		p.notifyDevicesChanged()

	case contracts.PropertyChanged:
		if n.Object != contracts.ObjectDevice && n.Object != contracts.ObjectSource {
			return
		}
		if n.Property != contracts.PropertyName && n.Property != contracts.PropertyDisplayName {
			return
		}
		p.notifyDevicesChanged()
	}
}

func (p *Port) notifyDevicesChanged() {
	p.subMu.Lock()
	subs := make([]func(), len(p.subscribers))
	copy(subs, p.subscribers)
	p.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

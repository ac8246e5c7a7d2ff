//go:build darwin
// +build darwin

package mididarwin

import (
	"fmt"
	"sync"
	"time"

	"github.com/youpy/go-coremidi"

	"github.com/leandrodaf/midiin/internal/inport"
	"github.com/leandrodaf/midiin/sdk/contracts"
)

const watchInterval = 2 * time.Second

// portConnection is the part of a coremidi port connection we need back.
type portConnection interface {
	Disconnect()
}

// service implements contracts.MIDIService over CoreMIDI. Source refs are
// positional: ref N is the source at index N-1 of the live source table.
type service struct {
	logger contracts.Logger

	mu      sync.Mutex
	client  coremidi.Client
	created bool
	port    coremidi.InputPort
	hasPort bool
	conns   map[contracts.SourceRef]portConnection
	watcher *inport.Watcher
}

// NewService creates the CoreMIDI-backed input service.
func NewService(options *contracts.ClientOptions) (contracts.MIDIService, error) {
	options.Logger.Info("using CoreMIDI input service")
	return &service{
		logger: options.Logger,
		conns:  make(map[contracts.SourceRef]portConnection),
	}, nil
}

func (s *service) CreateClient(name string, onNotify contracts.NotificationHandler) (contracts.ClientRef, error) {
	client, err := coremidi.NewClient(name)
	if err != nil {
		return 0, fmt.Errorf("creating coremidi client: %w", err)
	}

	s.mu.Lock()
	s.client = client
	s.created = true
	// The binding exposes no CoreMIDI setup notifications, so poll.
	s.watcher = inport.NewWatcher(watchInterval, snapshotSources, onNotify)
	watcher := s.watcher
	s.mu.Unlock()

	watcher.Start()
	return 1, nil
}

func (s *service) CreateInputPort(client contracts.ClientRef, name string, onReceive contracts.PacketHandler) (contracts.PortRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.created || client != 1 {
		return 0, fmt.Errorf("coremidi client not created")
	}

	port, err := coremidi.NewInputPort(s.client, name, func(_ coremidi.Source, packet coremidi.Packet) {
		onReceive([]contracts.Packet{{
			Timestamp: uint64(time.Now().UnixNano()),
			Data:      packet.Data,
		}})
	})
	if err != nil {
		return 0, fmt.Errorf("creating coremidi input port: %w", err)
	}
	s.port = port
	s.hasPort = true
	return 1, nil
}

func snapshotSources() map[contracts.SourceRef]string {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil
	}
	snap := make(map[contracts.SourceRef]string, len(sources))
	for i, src := range sources {
		snap[contracts.SourceRef(i+1)] = src.Name()
	}
	return snap
}

func (s *service) SourceCount() (int, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return 0, fmt.Errorf("listing coremidi sources: %w", err)
	}
	return len(sources), nil
}

func (s *service) Source(index int) (contracts.SourceRef, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return 0, fmt.Errorf("listing coremidi sources: %w", err)
	}
	if index < 0 || index >= len(sources) {
		return 0, nil
	}
	return contracts.SourceRef(index + 1), nil
}

func (s *service) SourceDisplayName(src contracts.SourceRef) (string, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return "", fmt.Errorf("listing coremidi sources: %w", err)
	}
	i := int(src) - 1
	if i < 0 || i >= len(sources) {
		return "", fmt.Errorf("no coremidi source for ref %d", src)
	}
	return sources[i].Name(), nil
}

func (s *service) BindSource(port contracts.PortRef, src contracts.SourceRef) error {
	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("listing coremidi sources: %w", err)
	}
	i := int(src) - 1
	if i < 0 || i >= len(sources) {
		return fmt.Errorf("no coremidi source for ref %d", src)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasPort || port != 1 {
		return fmt.Errorf("coremidi input port not created")
	}
	conn, err := s.port.Connect(sources[i])
	if err != nil {
		return fmt.Errorf("connecting coremidi source: %w", err)
	}
	s.conns[src] = conn
	return nil
}

func (s *service) UnbindSource(port contracts.PortRef, src contracts.SourceRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.conns[src]
	if !ok {
		return contracts.ErrNoConnection
	}
	conn.Disconnect()
	delete(s.conns, src)
	return nil
}

func (s *service) Close() error {
	s.mu.Lock()
	watcher := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if watcher != nil {
		watcher.Stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for ref, conn := range s.conns {
		conn.Disconnect()
		delete(s.conns, ref)
	}
	return nil
}

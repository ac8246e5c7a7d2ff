//go:build linux
// +build linux

package midilinux

import (
	"fmt"
	"sync"
	"time"

	"gitlab.com/gomidi/midi"
	"gitlab.com/gomidi/rtmididrv"

	"github.com/leandrodaf/midiin/internal/inport"
	"github.com/leandrodaf/midiin/sdk/contracts"
)

const watchInterval = 2 * time.Second

// service implements contracts.MIDIService over rtmidi (ALSA). Source
// refs are positional: ref N is the input port at index N-1 of the
// driver's port table. rtmidi has no separate port object, so binding a
// source opens the input and installs the listener directly.
type service struct {
	logger    contracts.Logger
	onReceive contracts.PacketHandler

	mu      sync.Mutex
	drv     *rtmididrv.Driver
	in      midi.In
	bound   contracts.SourceRef
	watcher *inport.Watcher
}

// NewService creates the rtmidi-backed input service.
func NewService(options *contracts.ClientOptions) (contracts.MIDIService, error) {
	options.Logger.Info("using rtmidi input service")
	return &service{logger: options.Logger}, nil
}

func (s *service) CreateClient(name string, onNotify contracts.NotificationHandler) (contracts.ClientRef, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return 0, fmt.Errorf("creating rtmidi driver: %w", err)
	}

	s.mu.Lock()
	s.drv = drv
	// rtmidi exposes no structural notifications, so poll the port table.
	s.watcher = inport.NewWatcher(watchInterval, s.snapshot, onNotify)
	watcher := s.watcher
	s.mu.Unlock()

	watcher.Start()
	return 1, nil
}

func (s *service) CreateInputPort(client contracts.ClientRef, name string, onReceive contracts.PacketHandler) (contracts.PortRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv == nil || client != 1 {
		return 0, fmt.Errorf("rtmidi driver not created")
	}
	s.onReceive = onReceive
	return 1, nil
}

func (s *service) inputs() ([]midi.In, error) {
	s.mu.Lock()
	drv := s.drv
	s.mu.Unlock()
	if drv == nil {
		return nil, fmt.Errorf("rtmidi driver not created")
	}
	ins, err := drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("listing rtmidi inputs: %w", err)
	}
	return ins, nil
}

func (s *service) snapshot() map[contracts.SourceRef]string {
	ins, err := s.inputs()
	if err != nil {
		return nil
	}
	snap := make(map[contracts.SourceRef]string, len(ins))
	for i, in := range ins {
		snap[contracts.SourceRef(i+1)] = in.String()
	}
	return snap
}

func (s *service) SourceCount() (int, error) {
	ins, err := s.inputs()
	if err != nil {
		return 0, err
	}
	return len(ins), nil
}

func (s *service) Source(index int) (contracts.SourceRef, error) {
	ins, err := s.inputs()
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(ins) {
		return 0, nil
	}
	return contracts.SourceRef(index + 1), nil
}

func (s *service) SourceDisplayName(src contracts.SourceRef) (string, error) {
	ins, err := s.inputs()
	if err != nil {
		return "", err
	}
	i := int(src) - 1
	if i < 0 || i >= len(ins) {
		return "", fmt.Errorf("no rtmidi input for ref %d", src)
	}
	return ins[i].String(), nil
}

func (s *service) BindSource(port contracts.PortRef, src contracts.SourceRef) error {
	ins, err := s.inputs()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onReceive == nil || port != 1 {
		return fmt.Errorf("rtmidi input port not created")
	}
	if s.in != nil {
		return fmt.Errorf("rtmidi input already open")
	}
	i := int(src) - 1
	if i < 0 || i >= len(ins) {
		return fmt.Errorf("no rtmidi input for ref %d", src)
	}

	in := ins[i]
	if err := in.Open(); err != nil {
		return fmt.Errorf("opening rtmidi input: %w", err)
	}

	onReceive := s.onReceive
	if err := in.SetListener(func(data []byte, _ int64) {
		// The listener's buffer is reused by rtmidi, copy before handing off.
		raw := make([]byte, len(data))
		copy(raw, data)
		onReceive([]contracts.Packet{{
			Timestamp: uint64(time.Now().UnixNano()),
			Data:      raw,
		}})
	}); err != nil {
		in.Close()
		return fmt.Errorf("setting rtmidi listener: %w", err)
	}

	s.in = in
	s.bound = src
	return nil
}

func (s *service) UnbindSource(port contracts.PortRef, src contracts.SourceRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.in == nil || s.bound != src {
		return contracts.ErrNoConnection
	}

	if err := s.in.StopListening(); err != nil {
		s.logger.Warn("failed to stop rtmidi listener",
			s.logger.Field().Error("error", err))
	}
	err := s.in.Close()
	s.in = nil
	s.bound = 0
	if err != nil {
		return fmt.Errorf("closing rtmidi input: %w", err)
	}
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
	if s.in != nil {
		_ = s.in.StopListening()
		_ = s.in.Close()
		s.in = nil
		s.bound = 0
	}
	if s.drv != nil {
		err := s.drv.Close()
		s.drv = nil
		if err != nil {
			return fmt.Errorf("closing rtmidi driver: %w", err)
		}
	}
	return nil
}

//go:build windows
// +build windows

package midiwindows

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/leandrodaf/midiin/internal/inport"
	"github.com/leandrodaf/midiin/sdk/contracts"
)

// HMIDIIN is a winmm MIDI input device handle.
type HMIDIIN windows.Handle

const (
	callbackFunction = 0x00030000 // dwFlags: callback is a function
	midiIOStatus     = 0x00000020
)

// winmm callback message types.
const (
	mimOpen      = 0x3C1
	mimClose     = 0x3C2
	mimData      = 0x3C3
	mimError     = 0x3C5
	mimLongError = 0x3C6
)

const watchInterval = 2 * time.Second

// midiInCaps mirrors the winmm MIDIINCAPSW structure.
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")
)

// registry routes winmm callbacks back to their service instance via the
// token passed as dwInstance at midiInOpen time. Passing a Go pointer
// through the callback instance word is not safe with a moving GC.
var (
	regMu     sync.Mutex
	registry  = map[uintptr]*service{}
	nextToken uintptr
)

var (
	callbackOnce sync.Once
	callbackPtr  uintptr
)

func inputCallback() uintptr {
	callbackOnce.Do(func() {
		callbackPtr = windows.NewCallback(midiInProc)
	})
	return callbackPtr
}

// service implements contracts.MIDIService over winmm. Source refs are
// positional: ref N is device index N-1. winmm has no port/source split,
// so binding a source opens and starts the device directly.
type service struct {
	logger    contracts.Logger
	onReceive contracts.PacketHandler

	mu      sync.Mutex
	token   uintptr
	handle  HMIDIIN
	bound   contracts.SourceRef
	watcher *inport.Watcher
}

// NewService creates the winmm-backed input service.
func NewService(options *contracts.ClientOptions) (contracts.MIDIService, error) {
	options.Logger.Info("using winmm MIDI input service")
	return &service{logger: options.Logger}, nil
}

func (s *service) CreateClient(name string, onNotify contracts.NotificationHandler) (contracts.ClientRef, error) {
	regMu.Lock()
	nextToken++
	token := nextToken
	registry[token] = s
	regMu.Unlock()

	s.mu.Lock()
	s.token = token
	// winmm has no structural notifications, so poll the device table.
	s.watcher = inport.NewWatcher(watchInterval, snapshotDevices, onNotify)
	watcher := s.watcher
	s.mu.Unlock()

	watcher.Start()
	return 1, nil
}

func (s *service) CreateInputPort(client contracts.ClientRef, name string, onReceive contracts.PacketHandler) (contracts.PortRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == 0 || client != 1 {
		return 0, fmt.Errorf("winmm client not created")
	}
	s.onReceive = onReceive
	return 1, nil
}

func deviceCount() int {
	r0, _, _ := procMidiInGetNumDevs.Call()
	return int(r0)
}

func deviceName(index int) (string, error) {
	var caps midiInCaps
	r1, _, err := procMidiInGetDevCaps.Call(
		uintptr(index),
		uintptr(unsafe.Pointer(&caps)),
		unsafe.Sizeof(caps),
	)
	if r1 != 0 {
		return "", fmt.Errorf("midiInGetDevCaps(%d): %v", index, err)
	}
	return windows.UTF16ToString(caps.szPname[:]), nil
}

func snapshotDevices() map[contracts.SourceRef]string {
	count := deviceCount()
	snap := make(map[contracts.SourceRef]string, count)
	for i := 0; i < count; i++ {
		name, err := deviceName(i)
		if err != nil {
			continue
		}
		snap[contracts.SourceRef(i+1)] = name
	}
	return snap
}

func (s *service) SourceCount() (int, error) {
	return deviceCount(), nil
}

func (s *service) Source(index int) (contracts.SourceRef, error) {
	if index < 0 || index >= deviceCount() {
		return 0, nil
	}
	return contracts.SourceRef(index + 1), nil
}

func (s *service) SourceDisplayName(src contracts.SourceRef) (string, error) {
	return deviceName(int(src) - 1)
}

func (s *service) BindSource(port contracts.PortRef, src contracts.SourceRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onReceive == nil || port != 1 {
		return fmt.Errorf("winmm input port not created")
	}
	if s.handle != 0 {
		return fmt.Errorf("winmm device already open")
	}

	var handle HMIDIIN
	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&handle)),
		uintptr(int(src)-1),
		inputCallback(),
		s.token,
		callbackFunction|midiIOStatus,
	)
	if r1 != 0 {
		return fmt.Errorf("midiInOpen(%d): %v", int(src)-1, err)
	}

	if r1, _, err = procMidiInStart.Call(uintptr(handle)); r1 != 0 {
		procMidiInClose.Call(uintptr(handle))
		return fmt.Errorf("midiInStart: %v", err)
	}

	s.handle = handle
	s.bound = src
	return nil
}

func (s *service) UnbindSource(port contracts.PortRef, src contracts.SourceRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == 0 || s.bound != src {
		return contracts.ErrNoConnection
	}

	if r1, _, err := procMidiInStop.Call(uintptr(s.handle)); r1 != 0 {
		s.logger.Warn("midiInStop failed",
			s.logger.Field().Error("error", err))
	}
	r1, _, err := procMidiInClose.Call(uintptr(s.handle))
	s.handle = 0
	s.bound = 0
	if r1 != 0 {
		return fmt.Errorf("midiInClose: %v", err)
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
	if s.handle != 0 {
		procMidiInStop.Call(uintptr(s.handle))
		procMidiInClose.Call(uintptr(s.handle))
		s.handle = 0
		s.bound = 0
	}
	token := s.token
	s.token = 0
	s.mu.Unlock()

	regMu.Lock()
	delete(registry, token)
	regMu.Unlock()
	return nil
}

// midiInProc is the winmm callback. Only short messages (MIM_DATA) carry
// event data: dwParam1 packs status and up to two data bytes, dwParam2 is
// the millisecond timestamp since midiInStart.
func midiInProc(hMidiIn, wMsg, dwInstance, dwParam1, dwParam2 uintptr) uintptr {
	regMu.Lock()
	s := registry[dwInstance]
	regMu.Unlock()
	if s == nil {
		return 0
	}

	switch wMsg {
	case mimData:
		status := byte(dwParam1 & 0xFF)
		raw := [3]byte{status, byte(dwParam1 >> 8), byte(dwParam1 >> 16)}
		s.onReceive([]contracts.Packet{{
			Timestamp: uint64(dwParam2),
			Data:      raw[:messageLength(status)],
		}})
	case mimError, mimLongError:
		s.logger.Error("winmm reported a midi input error",
			s.logger.Field().Uint64("msg", uint64(wMsg)))
	case mimOpen, mimClose:
		// Lifecycle echoes of our own open/close calls.
	}
	return 0
}

// messageLength gives the raw byte count of a short message from its
// status byte: program change and channel pressure carry one data byte,
// other channel-voice messages two.
func messageLength(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 2
	default:
		return 3
	}
}

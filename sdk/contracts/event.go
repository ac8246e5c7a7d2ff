package contracts

// MaxMessageBytes is the largest raw MIDI message this library decodes.
// Packets longer than this (SysEx and friends) are logged and dropped.
const MaxMessageBytes = 4

// MIDICommand identifies a MIDI channel-voice command (high nibble of the
// status byte).
type MIDICommand byte

const (
	NoteOff         MIDICommand = 0x80
	NoteOn          MIDICommand = 0x90
	PolyAftertouch  MIDICommand = 0xA0
	ControlChange   MIDICommand = 0xB0
	ProgramChange   MIDICommand = 0xC0
	ChannelPressure MIDICommand = 0xD0
	PitchBend       MIDICommand = 0xE0
)

// Event is one decoded MIDI message paired with the timestamp of the
// packet that carried it. Events are produced transiently per packet and
// never persisted.
type Event struct {
	Timestamp uint64  // Tick from the OS packet, unit is platform-defined.
	Status    byte    // Status byte: command in the high nibble, channel in the low.
	Data      [3]byte // Data bytes following the status byte; unused bytes are zero.
	Len       uint8   // Total raw bytes including status, 1..MaxMessageBytes.
}

// Command returns the channel-voice command encoded in the status byte.
func (e Event) Command() MIDICommand { return MIDICommand(e.Status & 0xF0) }

// Channel returns the zero-based MIDI channel (0-15).
func (e Event) Channel() byte { return e.Status & 0x0F }

// Note returns the note number for note and aftertouch messages.
func (e Event) Note() byte { return e.Data[0] & 0x7F }

// Velocity returns the velocity for note messages. A NoteOn with velocity
// zero is a NoteOff by MIDI convention; IsNoteOff accounts for that.
func (e Event) Velocity() byte { return e.Data[1] & 0x7F }

// IsNoteOff reports whether the event releases a note, either as an
// explicit NoteOff or as a NoteOn with zero velocity.
func (e Event) IsNoteOff() bool {
	return e.Command() == NoteOff || (e.Command() == NoteOn && e.Velocity() == 0)
}

// EventHandler receives one decoded batch per OS packet delivery, in
// packet order. It runs on the service's dispatch goroutine and must not
// block significantly.
type EventHandler func(events []Event)

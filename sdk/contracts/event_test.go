package contracts

import "testing"

func TestEventAccessors(t *testing.T) {
	tests := []struct {
		name        string
		event       Event
		wantCommand MIDICommand
		wantChannel byte
		wantNote    byte
		wantVel     byte
		wantNoteOff bool
	}{
		{
			name:        "note on",
			event:       Event{Status: 0x90, Data: [3]byte{60, 100}, Len: 3},
			wantCommand: NoteOn,
			wantChannel: 0,
			wantNote:    60,
			wantVel:     100,
		},
		{
			name:        "note off on channel 3",
			event:       Event{Status: 0x82, Data: [3]byte{60, 64}, Len: 3},
			wantCommand: NoteOff,
			wantChannel: 2,
			wantNote:    60,
			wantVel:     64,
			wantNoteOff: true,
		},
		{
			name:        "note on with zero velocity counts as note off",
			event:       Event{Status: 0x9F, Data: [3]byte{72, 0}, Len: 3},
			wantCommand: NoteOn,
			wantChannel: 15,
			wantNote:    72,
			wantVel:     0,
			wantNoteOff: true,
		},
		{
			name:        "control change",
			event:       Event{Status: 0xB1, Data: [3]byte{7, 127}, Len: 3},
			wantCommand: ControlChange,
			wantChannel: 1,
			wantNote:    7,
			wantVel:     127,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.event
			if got := e.Command(); got != tt.wantCommand {
				t.Errorf("Command() = 0x%X, want 0x%X", byte(got), byte(tt.wantCommand))
			}
			if got := e.Channel(); got != tt.wantChannel {
				t.Errorf("Channel() = %d, want %d", got, tt.wantChannel)
			}
			if got := e.Note(); got != tt.wantNote {
				t.Errorf("Note() = %d, want %d", got, tt.wantNote)
			}
			if got := e.Velocity(); got != tt.wantVel {
				t.Errorf("Velocity() = %d, want %d", got, tt.wantVel)
			}
			if got := e.IsNoteOff(); got != tt.wantNoteOff {
				t.Errorf("IsNoteOff() = %v, want %v", got, tt.wantNoteOff)
			}
		})
	}
}

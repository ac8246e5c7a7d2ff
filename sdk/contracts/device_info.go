package contracts

// DeviceInfo describes one MIDI input source as reported by the OS.
//
// ID is the source's position in the live OS source table, formatted as
// text so it round-trips through InPort.Connect. Indices are not stable
// identities: plugging or unplugging hardware between enumerations can
// shift them, so a DeviceInfo is only valid until the next devices-changed
// notification.
type DeviceInfo struct {
	ID   string // Positional source index as text, e.g. "0".
	Name string // Display name reported by the OS.
}

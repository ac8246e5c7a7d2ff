package inport

import (
	"time"

	"github.com/leandrodaf/midiin/sdk/contracts"
)

// Snapshot returns the current source table as ref -> display name.
type Snapshot func() map[contracts.SourceRef]string

// Watcher synthesizes structural notifications by polling the source
// table. The Go bindings for CoreMIDI, winmm and rtmidi expose no
// change-notification callback, so the platform services run one of
// these to keep devices-changed working end to end.
type Watcher struct {
	interval time.Duration
	snapshot Snapshot
	notify   contracts.NotificationHandler

	prev map[contracts.SourceRef]string
	stop chan struct{}
	done chan struct{}
}

// NewWatcher builds a watcher that diffs snapshots every interval and
// reports changes through notify. Call Start to begin polling.
func NewWatcher(interval time.Duration, snapshot Snapshot, notify contracts.NotificationHandler) *Watcher {
	return &Watcher{
		interval: interval,
		snapshot: snapshot,
		notify:   notify,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start takes the baseline snapshot and begins polling on a background
// goroutine. The baseline itself produces no notifications.
func (w *Watcher) Start() {
	w.prev = w.snapshot()
	go w.loop()
}

func (w *Watcher) loop() {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll diffs the current source table against the previous snapshot and
// emits one notification per removed source, renamed source, and added
// source, in that order. Removals come first so a port connected to a
// vanished source disconnects before anyone re-enumerates.
func (w *Watcher) Poll() {
	cur := w.snapshot()

	for ref, name := range w.prev {
		curName, ok := cur[ref]
		if !ok {
			w.notify(contracts.Notification{
				Type:   contracts.SourceRemoved,
				Source: ref,
			})
			continue
		}
		if curName != name {
			w.notify(contracts.Notification{
				Type:     contracts.PropertyChanged,
				Object:   contracts.ObjectSource,
				Property: contracts.PropertyDisplayName,
			})
		}
	}
	for ref := range cur {
		if _, ok := w.prev[ref]; !ok {
			w.notify(contracts.Notification{
				Type:   contracts.SourceAdded,
				Source: ref,
			})
		}
	}
	w.prev = cur
}

// Stop halts polling and waits for the poll goroutine to exit.
func (w *Watcher) Stop() {
	close(w.stop)
	<-w.done
}

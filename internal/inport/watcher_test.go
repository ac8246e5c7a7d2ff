package inport

import (
	"sync"
	"testing"
	"time"

	"github.com/leandrodaf/midiin/sdk/contracts"
)

// sourceTable is a mutable snapshot source for watcher tests. The watcher
// polls on a timer in production; tests use a long interval and drive
// Poll directly.
type sourceTable struct {
	mu    sync.Mutex
	table map[contracts.SourceRef]string
}

func newSourceTable(init map[contracts.SourceRef]string) *sourceTable {
	return &sourceTable{table: init}
}

func (s *sourceTable) snapshot() map[contracts.SourceRef]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[contracts.SourceRef]string, len(s.table))
	for ref, name := range s.table {
		out[ref] = name
	}
	return out
}

func (s *sourceTable) set(ref contracts.SourceRef, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[ref] = name
}

func (s *sourceTable) remove(ref contracts.SourceRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.table, ref)
}

func startWatcher(t *testing.T, table *sourceTable) (*Watcher, *[]contracts.Notification) {
	t.Helper()
	var got []contracts.Notification
	w := NewWatcher(time.Hour, table.snapshot, func(n contracts.Notification) {
		got = append(got, n)
	})
	w.Start()
	t.Cleanup(w.Stop)
	return w, &got
}

func TestWatcherBaselineIsSilent(t *testing.T) {
	table := newSourceTable(map[contracts.SourceRef]string{1: "Keyboard A"})
	w, got := startWatcher(t, table)

	w.Poll()
	if len(*got) != 0 {
		t.Fatalf("notifications after unchanged poll = %d, want 0", len(*got))
	}
}

func TestWatcherReportsAddedSource(t *testing.T) {
	table := newSourceTable(map[contracts.SourceRef]string{1: "Keyboard A"})
	w, got := startWatcher(t, table)

	table.set(2, "Keyboard B")
	w.Poll()

	if len(*got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(*got))
	}
	n := (*got)[0]
	if n.Type != contracts.SourceAdded || n.Source != 2 {
		t.Fatalf("notification = %+v, want SourceAdded for ref 2", n)
	}
}

func TestWatcherReportsRemovedSource(t *testing.T) {
	table := newSourceTable(map[contracts.SourceRef]string{1: "Keyboard A", 2: "Keyboard B"})
	w, got := startWatcher(t, table)

	table.remove(2)
	w.Poll()

	if len(*got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(*got))
	}
	n := (*got)[0]
	if n.Type != contracts.SourceRemoved || n.Source != 2 {
		t.Fatalf("notification = %+v, want SourceRemoved for ref 2", n)
	}
}

func TestWatcherReportsRename(t *testing.T) {
	table := newSourceTable(map[contracts.SourceRef]string{1: "Keyboard A"})
	w, got := startWatcher(t, table)

	table.set(1, "Keyboard A (USB)")
	w.Poll()

	if len(*got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(*got))
	}
	n := (*got)[0]
	if n.Type != contracts.PropertyChanged || n.Object != contracts.ObjectSource || n.Property != contracts.PropertyDisplayName {
		t.Fatalf("notification = %+v, want a display-name property change", n)
	}
}

func TestWatcherReportsRemovalsBeforeAdditions(t *testing.T) {
	table := newSourceTable(map[contracts.SourceRef]string{1: "Keyboard A"})
	w, got := startWatcher(t, table)

	table.remove(1)
	table.set(2, "Keyboard B")
	w.Poll()

	if len(*got) != 2 {
		t.Fatalf("notifications = %d, want 2", len(*got))
	}
	if (*got)[0].Type != contracts.SourceRemoved {
		t.Errorf("first notification = %+v, want SourceRemoved", (*got)[0])
	}
	if (*got)[1].Type != contracts.SourceAdded {
		t.Errorf("second notification = %+v, want SourceAdded", (*got)[1])
	}
}

func TestWatcherPollsOnInterval(t *testing.T) {
	table := newSourceTable(map[contracts.SourceRef]string{})

	notifications := make(chan contracts.Notification, 1)
	w := NewWatcher(5*time.Millisecond, table.snapshot, func(n contracts.Notification) {
		select {
		case notifications <- n:
		default:
		}
	})
	w.Start()
	defer w.Stop()

	table.set(1, "Keyboard A")

	select {
	case n := <-notifications:
		if n.Type != contracts.SourceAdded {
			t.Fatalf("notification = %+v, want SourceAdded", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported the new source")
	}
}

package state

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reliefline/sos-inbox/internal/stream"
)

const toastTickInterval = 100 * time.Millisecond

// snapshotMsg carries one stream emission into the update loop.
type snapshotMsg stream.Snapshot

// updatesClosedMsg is sent once the subscription has ended.
type updatesClosedMsg struct{}

type toastTickMsg time.Time

func waitForSnapshot(ch <-chan stream.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

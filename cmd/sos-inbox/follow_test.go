package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/identity"
	"github.com/reliefline/sos-inbox/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type followRun struct {
	out    *syncBuffer
	poll   chan time.Time
	toasts chan time.Time
	cancel context.CancelFunc
	done   chan error
}

func startFollow(t *testing.T, client *fakeInbox, owner string) *followRun {
	t.Helper()
	captureColors(t)
	ctx, cancel := context.WithCancel(context.Background())
	r := &followRun{
		out:    &syncBuffer{},
		poll:   make(chan time.Time),
		toasts: make(chan time.Time),
		cancel: cancel,
		done:   make(chan error, 1),
	}
	opts := FollowOptions{
		Pipeline: pipeline.Options{
			Store:    client,
			Identity: identity.Static(owner),
			Now:      func() time.Time { return testNow },
			TickChan: r.poll,
		},
		Output:     r.out,
		ToastTicks: r.toasts,
	}
	go func() { r.done <- Follow(ctx, opts) }()
	t.Cleanup(cancel)
	return r
}

func (r *followRun) waitFor(t *testing.T, s string) {
	t.Helper()
	require.Eventually(t, func() bool { return strings.Contains(r.out.String(), s) },
		2*time.Second, 10*time.Millisecond, "output: %q", r.out.String())
}

func (r *followRun) stop(t *testing.T) error {
	t.Helper()
	r.cancel()
	select {
	case err := <-r.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("follow did not stop")
		return nil
	}
}

func TestFollowPrintsOnlyNewNotificationsOnce(t *testing.T) {
	fresh := notif("new", "u1", domain.TypeWarning, 2*time.Second)
	fresh.ResourceID = "r-1"
	fresh.City = "Canoas"
	client := &fakeInbox{list: []domain.Notification{
		fresh,
		notif("old", "u1", domain.TypeInfo, time.Minute),
	}}

	r := startFollow(t, client, "u1")
	r.waitFor(t, "Alert new")
	r.poll <- testNow

	require.NoError(t, r.stop(t))
	out := r.out.String()
	assert.Equal(t, 1, strings.Count(out, "Alert new"))
	assert.NotContains(t, out, "Alert old")
	assert.Contains(t, out, "[2026-07-01 08:59:58]")
	assert.Contains(t, out, "warning")
	assert.Contains(t, out, "└─ City: Canoas")
	assert.Contains(t, out, "└─ Resource: r-1")
}

func TestFollowShowsAlertsInArrivalOrder(t *testing.T) {
	client := &fakeInbox{list: []domain.Notification{
		notif("second", "u1", domain.TypeInfo, time.Second),
		notif("first", "u1", domain.TypeError, 3*time.Second),
	}}

	r := startFollow(t, client, "u1")
	r.waitFor(t, "Alert first")
	assert.NotContains(t, r.out.String(), "Alert second", "one alert at a time")

	r.toasts <- testNow
	r.toasts <- testNow.Add(5 * time.Second)
	r.waitFor(t, "Alert second")

	require.NoError(t, r.stop(t))
	out := r.out.String()
	assert.Less(t, strings.Index(out, "Alert first"), strings.Index(out, "Alert second"))
}

func TestFollowInitialLoadFailure(t *testing.T) {
	client := &fakeInbox{listErr: errors.New("permission denied")}
	r := startFollow(t, client, "u1")

	select {
	case err := <-r.done:
		require.Error(t, err)
		assert.Equal(t, "follow: permission denied", err.Error())
	case <-time.After(2 * time.Second):
		t.Fatal("follow did not stop after a failed load")
	}
}

func TestFollowRequiresOwner(t *testing.T) {
	r := startFollow(t, &fakeInbox{}, "")
	select {
	case err := <-r.done:
		assert.ErrorIs(t, err, pipeline.ErrAuthRequired)
	case <-time.After(2 * time.Second):
		t.Fatal("follow did not stop without an owner")
	}
}

func TestPrintToastWithoutTitle(t *testing.T) {
	var out syncBuffer
	printToast(&out, domain.Notification{Message: "Water rising", Type: "bogus"})
	assert.True(t, strings.HasPrefix(out.String(), "[N/A] "))
	assert.Contains(t, out.String(), "info Water rising\n")
}

func TestNewFollowCmdPanicsWhenClientIsNil(t *testing.T) {
	require.Panics(t, func() { NewFollowCmd(nil) })
}

package main

import (
	"errors"
	"testing"

	"github.com/reliefline/sos-inbox/cmd"
	"github.com/stretchr/testify/assert"
)

func TestRunReturnsZeroOnSuccess(t *testing.T) {
	captureColors(t)
	var called bool
	code := run([]string{"version"}, func() error {
		called = true
		return nil
	})
	assert.True(t, called)
	assert.Equal(t, 0, code)
}

func TestRunReportsFailure(t *testing.T) {
	_, errOut := captureColors(t)
	code := run([]string{"list"}, func() error { return errors.New("boom") })
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "boom")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range cmd.RootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"add", "list", "mark-read", "mark-unread", "mark-all-read", "status", "follow", "tui", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

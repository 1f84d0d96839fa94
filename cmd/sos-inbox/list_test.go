package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runList(t *testing.T, client listClient, args ...string) (string, error) {
	t.Helper()
	old := nowFunc
	nowFunc = func() time.Time { return testNow }
	t.Cleanup(func() { nowFunc = old })

	c := NewListCmd(client)
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(append([]string{}, args...))
	err := c.Execute()
	return out.String(), err
}

func listFixture() *fakeInbox {
	a := notif("a", "u1", domain.TypeError, time.Minute)
	a.City = "Canoas"
	b := notif("b", "u1", domain.TypeInfo, time.Hour)
	b.Read = true
	c := notif("c", "u2", domain.TypeInfo, time.Second)
	return &fakeInbox{list: []domain.Notification{a, b, c}}
}

func TestNewListCmdPanicsWhenClientIsNil(t *testing.T) {
	require.Panics(t, func() { NewListCmd(nil) })
}

func TestListOwnNotificationsOnly(t *testing.T) {
	signIn(t, "u1")
	out, err := runList(t, listFixture(), "--format", "compact")
	require.NoError(t, err)
	assert.Equal(t, "Alert a\nAlert b\n", out)
}

func TestListFilters(t *testing.T) {
	signIn(t, "u1")
	out, err := runList(t, listFixture(), "--format", "compact", "--read", "unread")
	require.NoError(t, err)
	assert.Equal(t, "Alert a\n", out)

	out, err = runList(t, listFixture(), "--format", "compact", "--city", "canoas")
	require.NoError(t, err)
	assert.Equal(t, "Alert a\n", out)

	out, err = runList(t, listFixture(), "--type", "warning")
	require.NoError(t, err)
	assert.Equal(t, "No notifications found\n", out)
}

func TestListSearch(t *testing.T) {
	signIn(t, "u1")
	out, err := runList(t, listFixture(), "--format", "compact", "--search", "canoas")
	require.NoError(t, err)
	assert.Equal(t, "Alert a\n", out)

	out, err = runList(t, listFixture(), "--format", "compact", "--search", "^alert b$", "--search-mode", "regex")
	require.NoError(t, err)
	assert.Equal(t, "Alert b\n", out)

	_, err = runList(t, listFixture(), "--search-mode", "fuzzy")
	assert.Error(t, err)
}

func TestListJSONEmpty(t *testing.T) {
	signIn(t, "u9")
	out, err := runList(t, listFixture(), "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestListGroupByCity(t *testing.T) {
	signIn(t, "u1")
	out, err := runList(t, listFixture(), "--format", "compact", "--group-by", "city")
	require.NoError(t, err)
	assert.Equal(t, "=== Canoas (1) ===\nAlert a\n=== "+domain.UnknownCity+" (1) ===\nAlert b\n", out)
}

func TestListInvalidArguments(t *testing.T) {
	signIn(t, "u1")
	_, err := runList(t, listFixture(), "--format", "xml")
	assert.Error(t, err)
	_, err = runList(t, listFixture(), "--read", "maybe")
	assert.Error(t, err)
	_, err = runList(t, listFixture(), "--group-by", "owner")
	assert.Error(t, err)
}

func TestListRequiresOwner(t *testing.T) {
	signIn(t, "")
	_, err := runList(t, listFixture())
	assert.ErrorIs(t, err, pipeline.ErrAuthRequired)
}

func TestListStoreError(t *testing.T) {
	signIn(t, "u1")
	_, err := runList(t, &fakeInbox{listErr: errors.New("permission denied")})
	require.Error(t, err)
	assert.Equal(t, "list: permission denied", err.Error())
}

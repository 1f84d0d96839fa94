package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sample() Notification {
	return Notification{
		ID:        "n1",
		OwnerID:   "u1",
		Title:     "Flood warning",
		Message:   "River level rising",
		Type:      TypeWarning,
		CreatedAt: baseTime,
		City:      "Porto Alegre",
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"info", TypeInfo, false},
		{"WARNING", TypeWarning, false},
		{" error ", TypeError, false},
		{"success", TypeSuccess, false},
		{"critical", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeOrDefault(t *testing.T) {
	assert.Equal(t, TypeError, TypeError.OrDefault())
	assert.Equal(t, TypeInfo, Type("alert").OrDefault())
	assert.Equal(t, TypeInfo, Type("").OrDefault())
}

func TestValidate(t *testing.T) {
	require.NoError(t, sample().Validate())

	tests := []struct {
		name   string
		mutate func(*Notification)
		want   error
	}{
		{"missing id", func(n *Notification) { n.ID = " " }, ErrMissingID},
		{"missing owner", func(n *Notification) { n.OwnerID = "" }, ErrMissingOwner},
		{"no content", func(n *Notification) { n.Title, n.Message = "", "" }, ErrMissingContent},
		{"bad type", func(n *Notification) { n.Type = "alert" }, ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := sample()
			tt.mutate(&n)
			assert.ErrorIs(t, n.Validate(), tt.want)
		})
	}

	n := sample()
	n.Title = ""
	assert.NoError(t, n.Validate(), "message alone is enough")
}

func TestMarkReadIsIdempotent(t *testing.T) {
	n := sample()
	first := baseTime.Add(time.Minute)

	require.True(t, n.MarkRead(first))
	require.True(t, n.Read)
	require.NotNil(t, n.ReadAt)
	assert.Equal(t, first, *n.ReadAt)

	assert.False(t, n.MarkRead(first.Add(time.Hour)))
	assert.True(t, n.Read)
	assert.Equal(t, first, *n.ReadAt, "second mark keeps the original read time")
}

func TestMarkUnread(t *testing.T) {
	n := sample()
	assert.False(t, n.MarkUnread())

	n.MarkRead(baseTime)
	assert.True(t, n.MarkUnread())
	assert.False(t, n.Read)
	assert.Nil(t, n.ReadAt)
}

func TestCreatedAtLabel(t *testing.T) {
	tests := []struct {
		name    string
		created time.Time
		want    string
	}{
		{"missing", time.Time{}, "N/A"},
		{"seconds", baseTime.Add(-30 * time.Second), "just now"},
		{"future skew", baseTime.Add(5 * time.Second), "just now"},
		{"minutes", baseTime.Add(-5 * time.Minute), "5m ago"},
		{"hours", baseTime.Add(-3 * time.Hour), "3h ago"},
		{"days", baseTime.Add(-50 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Notification{CreatedAt: tt.created}
			assert.Equal(t, tt.want, n.CreatedAtLabel(baseTime))
		})
	}
}

func TestLocalityAndResource(t *testing.T) {
	n := sample()
	assert.Equal(t, "Porto Alegre", n.Locality())
	assert.False(t, n.HasResource())

	n.City = "  "
	n.ResourceID = "R1"
	assert.Equal(t, "", n.Locality())
	assert.True(t, n.HasResource())
}

func TestCountUnread(t *testing.T) {
	a, b, c := sample(), sample(), sample()
	b.Read = true
	assert.Equal(t, 2, CountUnread([]Notification{a, b, c}))
	assert.Equal(t, 0, CountUnread(nil))
}

package formatter

import (
	"testing"

	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNotifications() []domain.Notification {
	return []domain.Notification{
		{ID: "4", Title: "Levee breach", Message: "Evacuate", Type: domain.TypeWarning, City: "Canoas"},
		{ID: "3", Title: "Road closed", Type: domain.TypeError},
		{ID: "2", Title: "Old alert", Type: domain.TypeError, Read: true},
		{ID: "1", Title: "Shelter open", Type: ""},
	}
}

func TestBuildContext(t *testing.T) {
	ctx := BuildContext(sampleNotifications())

	assert.Equal(t, 4, ctx.TotalCount)
	assert.Equal(t, 3, ctx.UnreadCount)
	assert.Equal(t, 1, ctx.ReadCount)
	assert.Equal(t, 1, ctx.WarningCount)
	assert.Equal(t, 1, ctx.ErrorCount)
	assert.Equal(t, 1, ctx.InfoCount, "untyped counts as info")
	assert.Equal(t, 0, ctx.SuccessCount)
	assert.True(t, ctx.HasUnread)
	assert.Equal(t, "Levee breach", ctx.LatestTitle)
	assert.Equal(t, "Evacuate", ctx.LatestMessage)
	assert.Equal(t, "Canoas", ctx.LatestCity)
	assert.Equal(t, domain.TypeError, ctx.HighestType)
}

func TestBuildContextEmpty(t *testing.T) {
	ctx := BuildContext(nil)
	assert.False(t, ctx.HasUnread)
	assert.Empty(t, ctx.HighestType)

	out, err := NewTemplateEngine().Substitute("${highest-severity}/${has-unread}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "0/false", out)
}

func TestParse(t *testing.T) {
	engine := NewTemplateEngine()

	tests := []struct {
		name     string
		template string
		want     []string
	}{
		{name: "empty template", template: "", want: []string{}},
		{name: "no variables", template: "Hello world", want: []string{}},
		{name: "single variable", template: "Count: ${unread-count}", want: []string{"unread-count"}},
		{name: "duplicates", template: "${unread-count} and ${unread-count}", want: []string{"unread-count"}},
		{name: "several", template: "${error-count} ${latest-title}", want: []string{"error-count", "latest-title"}},
		{name: "uppercase is not a variable", template: "${Unread}", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Parse(tt.template))
		})
	}
}

func TestSubstitute(t *testing.T) {
	engine := NewTemplateEngine()
	ctx := BuildContext(sampleNotifications())

	out, err := engine.Substitute("${unread-count}/${total-count} ${highest-type}:${highest-severity} ${latest-title}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "3/4 error:1 Levee breach", out)

	out, err = engine.Substitute("no variables", ctx)
	require.NoError(t, err)
	assert.Equal(t, "no variables", out)

	_, err = engine.Substitute("${unread-count} ${pane-list}", ctx)
	assert.EqualError(t, err, "unknown variable: pane-list")
}

func TestValidate(t *testing.T) {
	engine := NewTemplateEngine()

	assert.NoError(t, engine.Validate(""))
	assert.NoError(t, engine.Validate("${unread-count} unread"))
	assert.ErrorContains(t, engine.Validate("${unread-count"), "malformed variable")
	assert.ErrorContains(t, engine.Validate("${Unread}"), "malformed variable")
	assert.EqualError(t, engine.Validate("${session-list}"), "unknown variable: session-list")
}

func TestPresets(t *testing.T) {
	registry := NewPresetRegistry()
	engine := NewTemplateEngine()

	names := []string{}
	for _, p := range registry.List() {
		names = append(names, p.Name)
		assert.NoError(t, engine.Validate(p.Template), p.Name)
		assert.NotEmpty(t, p.Description, p.Name)
	}
	assert.Equal(t, []string{"compact", "detailed", "json", "count-only", "types", "severity"}, names)

	ctx := BuildContext(sampleNotifications())
	tests := map[string]string{
		"compact":    "[3] Levee breach",
		"count-only": "3",
		"types":      "E:1 W:1 I:1 S:0",
		"json":       `{"unread":3,"total":4,"error":1,"warning":1}`,
	}
	for name, want := range tests {
		p, err := registry.Get(name)
		require.NoError(t, err)
		out, err := engine.Substitute(p.Template, ctx)
		require.NoError(t, err)
		assert.Equal(t, want, out, name)
	}

	_, err := registry.Get("panes")
	assert.EqualError(t, err, "preset not found: panes")
}

func TestRegisterPreset(t *testing.T) {
	registry := NewPresetRegistry()

	assert.EqualError(t, registry.Register(Preset{Template: "x"}), "preset name cannot be empty")
	assert.EqualError(t, registry.Register(Preset{Name: "x"}), "preset template cannot be empty")

	require.NoError(t, registry.Register(Preset{Name: "compact", Template: "${unread-count}!"}))
	p, err := registry.Get("compact")
	require.NoError(t, err)
	assert.Equal(t, "${unread-count}!", p.Template)
	assert.Len(t, registry.List(), 6, "replacing keeps one entry")

	require.NoError(t, registry.Register(Preset{Name: "mine", Template: "${latest-city}"}))
	list := registry.List()
	assert.Equal(t, "mine", list[len(list)-1].Name)
}

package formatter

import "fmt"

// Preset is a named template.
type Preset struct {
	Name        string
	Template    string
	Description string
}

// PresetRegistry manages template presets.
type PresetRegistry interface {
	// Get returns a preset by name.
	Get(name string) (Preset, error)

	// List returns all presets in registration order.
	List() []Preset

	// Register adds a preset or replaces one with the same name.
	Register(preset Preset) error
}

type presetRegistry struct {
	presets map[string]Preset
	order   []string
}

// NewPresetRegistry creates a registry holding the default presets.
func NewPresetRegistry() PresetRegistry {
	pr := &presetRegistry{presets: make(map[string]Preset)}
	for _, p := range []Preset{
		{
			Name:        "compact",
			Template:    "[${unread-count}] ${latest-title}",
			Description: "Unread count and newest unread title",
		},
		{
			Name:        "detailed",
			Template:    "${unread-count} unread, ${read-count} read | Latest: ${latest-title} (${latest-city})",
			Description: "Counts and newest unread notification",
		},
		{
			Name:        "json",
			Template:    `{"unread":${unread-count},"total":${total-count},"error":${error-count},"warning":${warning-count}}`,
			Description: "Counts as JSON for scripts",
		},
		{
			Name:        "count-only",
			Template:    "${unread-count}",
			Description: "Only the unread count",
		},
		{
			Name:        "types",
			Template:    "E:${error-count} W:${warning-count} I:${info-count} S:${success-count}",
			Description: "Unread count per type",
		},
		{
			Name:        "severity",
			Template:    "Severity: ${highest-severity} | Unread: ${unread-count}",
			Description: "Most severe unread type (1 is error) and unread count",
		},
	} {
		_ = pr.Register(p)
	}
	return pr
}

func (pr *presetRegistry) Get(name string) (Preset, error) {
	preset, ok := pr.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("preset not found: %s", name)
	}
	return preset, nil
}

func (pr *presetRegistry) List() []Preset {
	result := make([]Preset, 0, len(pr.order))
	for _, name := range pr.order {
		result = append(result, pr.presets[name])
	}
	return result
}

func (pr *presetRegistry) Register(preset Preset) error {
	if preset.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	if preset.Template == "" {
		return fmt.Errorf("preset template cannot be empty")
	}
	if _, exists := pr.presets[preset.Name]; !exists {
		pr.order = append(pr.order, preset.Name)
	}
	pr.presets[preset.Name] = preset
	return nil
}

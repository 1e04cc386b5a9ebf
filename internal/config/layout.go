package config

import "fmt"

// LayoutConfig holds the split-pane ratios and their clamp bounds.
// Ratios are the fraction of the container given to the first pane.
type LayoutConfig struct {
	// Sidebar / content split (community chat, foundry brief)
	SplitRatio    float64 `yaml:"split_ratio"`
	MinSplitRatio float64 `yaml:"min_split_ratio"`
	MaxSplitRatio float64 `yaml:"max_split_ratio"`

	// Editor / mentor split inside the foundry right panel
	EditorRatio    float64 `yaml:"editor_ratio"`
	MinEditorRatio float64 `yaml:"min_editor_ratio"`
	MaxEditorRatio float64 `yaml:"max_editor_ratio"`
}

// DefaultLayoutConfig returns the layout defaults.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		SplitRatio:     0.30,
		MinSplitRatio:  0.15,
		MaxSplitRatio:  0.60,
		EditorRatio:    0.60,
		MinEditorRatio: 0.20,
		MaxEditorRatio: 0.80,
	}
}

func (l LayoutConfig) validate() error {
	if err := validateBounds("split", l.MinSplitRatio, l.MaxSplitRatio); err != nil {
		return err
	}
	return validateBounds("editor", l.MinEditorRatio, l.MaxEditorRatio)
}

func validateBounds(name string, min, max float64) error {
	if min <= 0 || max >= 1 {
		return fmt.Errorf("layout.%s bounds must lie strictly inside (0, 1), got [%.2f, %.2f]", name, min, max)
	}
	if min >= max {
		return fmt.Errorf("layout.min_%s_ratio must be below layout.max_%s_ratio", name, name)
	}
	return nil
}

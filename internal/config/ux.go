package config

// UIConfig holds user interface configuration.
type UIConfig struct {
	// Theme is "light" or "dark"; empty auto-detects from the terminal.
	Theme string `yaml:"theme"`

	// SidebarOpen is the initial state of the navigation sidebar.
	SidebarOpen *bool `yaml:"sidebar_open,omitempty"`
}

// IsSidebarOpen reports the configured sidebar state, defaulting to open.
func (u UIConfig) IsSidebarOpen() bool {
	if u.SidebarOpen == nil {
		return true
	}
	return *u.SidebarOpen
}

package types

// GroupSettings are the per-group toggles that shape how the catalog behaves
// inside one chat group.
type GroupSettings struct {
	// AutoFilter enables searching the catalog on every group message.
	AutoFilter bool `json:"auto_filter"`
	// FileSecure forwards files with content protection enabled.
	FileSecure bool `json:"file_secure"`
	// SpellCheck suggests close matches when a search returns nothing.
	SpellCheck bool `json:"spell_check"`
	// AutoDelete removes served results after the configured delay.
	AutoDelete bool `json:"auto_delete"`
	// Welcome greets users joining the group.
	Welcome bool `json:"welcome"`
	// Language restricts results to one language when set.
	Language string `json:"language,omitempty"`
	// MaxButtons caps how many results render per page.
	MaxButtons int `json:"max_buttons"`
	// Template formats served file captions.
	Template string `json:"template,omitempty"`
}

// DefaultGroupSettings returns the settings applied to a newly seen group.
func DefaultGroupSettings() GroupSettings {
	return GroupSettings{
		AutoFilter: true,
		SpellCheck: true,
		MaxButtons: 10,
	}
}

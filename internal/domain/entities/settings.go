package entities

// Settings keys
const (
	SettingAutoValidate  = "auto_validate"
	SettingFontFamily    = "font_family"
	SettingFontColor     = "font_color"
	SettingFocusedFolder = "focused_folder"
)

// Settings is a flat key-value record. Keys unknown to the application are
// kept as they are so that a save never drops them.
type Settings map[string]any

// DefaultSettings returns a fresh copy of the default preferences.
func DefaultSettings() Settings {
	return Settings{
		SettingAutoValidate:  true,
		SettingFontFamily:    "Arial, sans-serif",
		SettingFontColor:     "#000000",
		SettingFocusedFolder: "",
	}
}

// WithDefaults injects every default key missing from s. Present keys are
// never overwritten. It returns the keys that were added.
func (s Settings) WithDefaults() []string {
	var added []string
	for k, v := range DefaultSettings() {
		if _, ok := s[k]; !ok {
			s[k] = v
			added = append(added, k)
		}
	}
	return added
}

// Clone returns a shallow copy of s.
func (s Settings) Clone() Settings {
	c := make(Settings, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

func (s Settings) AutoValidate() bool {
	v, ok := s[SettingAutoValidate].(bool)
	if !ok {
		return true
	}
	return v
}

func (s Settings) FontFamily() string {
	return s.stringOr(SettingFontFamily)
}

func (s Settings) FontColor() string {
	return s.stringOr(SettingFontColor)
}

// FocusedFolder is the folder the fill-in-the-blank game is narrowed to, or
// "" when every folder is active.
func (s Settings) FocusedFolder() string {
	return s.stringOr(SettingFocusedFolder)
}

func (s Settings) stringOr(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	def, _ := DefaultSettings()[key].(string)
	return def
}

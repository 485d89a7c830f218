// Package settings manages the local user-settings draft. The draft is
// persisted on this machine only and is never round-tripped to the server.
package settings

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/amezcua/folio/internal/storage"
)

var validate = validator.New()

// Draft mirrors the settings form. Theme is "light" or "dark"; language is a
// two-letter code.
type Draft struct {
	Name               string `json:"name"`
	Email              string `json:"email" validate:"omitempty,email"`
	Language           string `json:"language"`
	Notifications      bool   `json:"notifications"`
	EmailNotifications bool   `json:"emailNotifications"`
	ThemePreference    string `json:"themePreference"`
}

// Default returns the draft used when nothing is persisted yet.
func Default() Draft {
	return Draft{
		Language:        "en",
		Notifications:   true,
		ThemePreference: "dark",
	}
}

// Load reads the persisted draft, falling back to defaults.
func Load(store *storage.Store) Draft {
	draft := Default()
	_ = store.Read(storage.SettingsKey, &draft)
	return draft
}

// Save validates and persists the draft.
func Save(store *storage.Store, draft Draft) error {
	if err := validate.Struct(draft); err != nil {
		return errors.New("enter a valid email address")
	}
	return store.Write(storage.SettingsKey, draft)
}

package entity

import "github.com/google/uuid"

// Storage keys for the sibling widget payloads. They share the same
// quota-constrained store as shortcuts and the icon cache.
const (
	ShortcutsKey        = "nexus_shortcuts"
	ThemeKey            = "nexus_theme"
	SettingsKey         = "nexus_settings"
	NotesKey            = "nexus_notes"
	TodosKey            = "nexus_todos"
	CurrencyPrefsKey    = "nexus_currency_preferences"
	CurrencyRatesKey    = "nexus_currency_rates"
	PasswordSettingsKey = "nexus_password_settings"
)

// MaxNotes caps the quick-notes list.
const MaxNotes = 10

// Note is a single quick note.
type Note struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"` // epoch milliseconds
}

// NewNote creates a note with a fresh id.
func NewNote(text string, createdAt int64) Note {
	return Note{ID: uuid.NewString(), Text: text, CreatedAt: createdAt}
}

// Todo is a single task item.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"` // epoch milliseconds
}

// NewTodo creates an open todo with a fresh id.
func NewTodo(text string, createdAt int64) Todo {
	return Todo{ID: uuid.NewString(), Text: text, CreatedAt: createdAt}
}

// LogoSettings controls the animated logo on the start page.
type LogoSettings struct {
	Visible bool     `json:"visible"`
	Texts   []string `json:"texts"`
}

// AppSettings is the global settings payload.
type AppSettings struct {
	Logo LogoSettings `json:"logo"`
}

// DefaultSettings returns the settings used before the user changes
// anything.
func DefaultSettings() AppSettings {
	return AppSettings{
		Logo: LogoSettings{
			Visible: true,
			Texts:   []string{"GUGUGAGA !!!", "MYGO !!!"},
		},
	}
}

// CurrencyPrefs is the persisted currency pair selection.
type CurrencyPrefs struct {
	FromCurrency string `json:"fromCurrency"`
	ToCurrency   string `json:"toCurrency"`
}

// CachedRates is a day-cached snapshot of exchange rates.
type CachedRates struct {
	Rates     map[string]float64 `json:"rates"`
	Base      string             `json:"base"`
	Timestamp int64              `json:"timestamp"` // epoch milliseconds
	Date      string             `json:"date"`
}

// PasswordType selects between random strings and numeric PINs.
type PasswordType string

const (
	PasswordTypeRandom PasswordType = "random"
	PasswordTypePIN    PasswordType = "pin"
)

// PasswordSettings is the persisted password generator configuration.
type PasswordSettings struct {
	Type           PasswordType `json:"type"`
	RandomLength   int          `json:"randomLength"`
	IncludeNumbers bool         `json:"includeNumbers"`
	IncludeSymbols bool         `json:"includeSymbols"`
	PINLength      int          `json:"pinLength"`
}

// DefaultPasswordSettings mirrors the generator's initial state.
func DefaultPasswordSettings() PasswordSettings {
	return PasswordSettings{
		Type:         PasswordTypeRandom,
		RandomLength: 8,
		PINLength:    6,
	}
}

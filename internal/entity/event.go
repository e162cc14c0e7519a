package entity

import "time"

// CommandKind is the first argument of a gtag call.
type CommandKind string

const (
	CommandConfig CommandKind = "config"
	CommandEvent  CommandKind = "event"
	CommandSet    CommandKind = "set"
)

// Command is one call against the tagging function: gtag(kind, target, params).
type Command struct {
	VisitorID string
	Kind      CommandKind
	Target    string
	Params    map[string]any
	IssuedAt  time.Time
}

// CustomEvent is a generic interaction event.
type CustomEvent struct {
	Action   string
	Category string
	Label    string
	Value    *float64
	Params   map[string]any
}

// PageViewEvent records a page view against the configured measurement ID.
type PageViewEvent struct {
	Title        string
	Location     string
	ContentGroup string
	Params       map[string]any
}

type ConversionName string

const (
	ConversionGenerateCharacter ConversionName = "generate_character"
	ConversionPurchaseCredits   ConversionName = "purchase_credits"
	ConversionUserSignup        ConversionName = "user_signup"
	ConversionVideoGenerate     ConversionName = "video_generate"
)

func (n ConversionName) Valid() bool {
	switch n {
	case ConversionGenerateCharacter, ConversionPurchaseCredits, ConversionUserSignup, ConversionVideoGenerate:
		return true
	}
	return false
}

// ConversionEvent is a business-significant action.
type ConversionEvent struct {
	Name     ConversionName
	Value    *float64
	Currency string
	Params   map[string]any
}

// UserProperties are forwarded as custom dimensions.
type UserProperties map[string]any

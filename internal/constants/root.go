package constants

import "time"

const (
	AppName            = "skintrack"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/skintrack/skintrack.db"
	Version            = "v0.3.0"

	// KeyringTarget is the --db value that loads the connection string from the OS keyring.
	KeyringTarget = "keyring"

	// UnknownProductName is shown for routine entries whose product no longer exists.
	UnknownProductName = "Unknown"

	// Generation allocation retry policy
	DefaultMaxRetries = 5
	DefaultRetryDelay = 10 * time.Millisecond

	// Routine suggestion defaults
	DefaultSuggestCount   = 3
	DefaultSlotMinutes    = 60
	MinProductSlotMinutes = 5
	MaxProductSlotMinutes = 120
)

package constants

const (
	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is the persisted timestamp layout. It is fixed-width and always UTC
	// so lexical order in the database matches chronological order.
	TimestampFormat = "2006-01-02T15:04:05.000000000Z"
)

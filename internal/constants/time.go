package constants

const (
	// DateFormat is the date key format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat matches the browser's Date.toISOString output.
	TimestampFormat = "2006-01-02T15:04:05.000Z"

	// DisplayDateFormat is used in tables and exports (e.g. "Mar 1, 2024")
	DisplayDateFormat = "Jan 2, 2006"

	// DisplayLongDateFormat is used for day headers (e.g. "Friday, March 1, 2024")
	DisplayLongDateFormat = "Monday, January 2, 2006"

	// DisplayShortDateFormat is used in the greeting header (e.g. "Fri, Mar 1")
	DisplayShortDateFormat = "Mon, Jan 2"

	// DisplayTimeFormat is the meal time format (e.g. "12:30 PM")
	DisplayTimeFormat = "03:04 PM"
)

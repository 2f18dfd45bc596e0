package timeutil

import "time"

// WIB is the fixed UTC+7 zone every timestamp in the system is stamped with.
// The dashboard's users are all in one office, so a fixed offset is used
// instead of the IANA tzdata lookup (works on scratch containers too).
var WIB = time.FixedZone("WIB", 7*60*60)

const (
	// DBFormat matches the DATETIME layout of the legacy dumps.
	DBFormat = "2006-01-02 15:04:05"
	// DisplayFormat is the dd/mm/yyyy layout the dashboard shows.
	DisplayFormat = "02/01/2006 15:04"
)

// Now returns the current time in WIB.
func Now() time.Time {
	return time.Now().In(WIB)
}

// ToWIB converts any timestamp to the WIB zone.
func ToWIB(t time.Time) time.Time {
	return t.In(WIB)
}

// FormatDB renders t the way the legacy database stored it.
func FormatDB(t time.Time) string {
	return ToWIB(t).Format(DBFormat)
}

// FormatDisplay renders t for table views and notifications.
func FormatDisplay(t time.Time) string {
	return ToWIB(t).Format(DisplayFormat)
}

// ParseDB parses a legacy DATETIME string, interpreting it as WIB.
func ParseDB(s string) (time.Time, error) {
	return time.ParseInLocation(DBFormat, s, WIB)
}

// DayWindow returns the [start, end) bounds of the WIB calendar day containing t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(WIB)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, WIB)
	return start, start.AddDate(0, 0, 1)
}

package view

import "time"

// Locale is the one locale comment dates are rendered in. Output never depends
// on the host's locale or timezone.
const Locale = "en-US"

const displayLayout = "Jan 02, 2006"

// isoLayouts are the ISO-8601 shapes accepted for comment dates.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatDate renders an ISO-8601 date as "Jan 05, 2023" in UTC.
// Values that don't parse are returned unchanged.
func FormatDate(iso string) string {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.UTC().Format(displayLayout)
		}
	}
	return iso
}

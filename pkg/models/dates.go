package models

import "time"

// ISODateFormat is the layout used by every lastModified field.
const ISODateFormat = "2006-01-02"

// Today returns the current UTC date in lastModified format.
func Today() string {
	return time.Now().UTC().Format(ISODateFormat)
}

package reservation

// FormatDateTimeHuman converts a canonical slot time into a spoken-friendly
// form, e.g. "Friday, October 27 at 07:00 PM". Unparsable input is returned
// as-is.
func FormatDateTimeHuman(iso string) string {
	t, err := ParseSlotTime(iso)
	if err != nil {
		return iso
	}
	return t.Format("Monday, January 02 at 03:04 PM")
}

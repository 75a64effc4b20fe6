package watch

// TriggerHours returns the candidate trigger hours derived from a source's
// expected publication hour. Morning sources share one fixed window; evening
// windows trail the expected hour; late-night windows span midnight. A source
// stays due at every trigger hour until it is deactivated or the day resets.
func TriggerHours(expectedHour int) []int {
	switch {
	case expectedHour < 12:
		return []int{9, 10, 11}
	case expectedHour < 20:
		return []int{expectedHour + 2, expectedHour + 3, expectedHour + 4}
	default:
		return []int{22, 23, 0, 1, 2, 3}
	}
}

// InWindow reports whether hour is a trigger hour for expectedHour.
func InWindow(expectedHour, hour int) bool {
	for _, h := range TriggerHours(expectedHour) {
		if h == hour {
			return true
		}
	}
	return false
}

package utils

// IsValidInterval guards the identifier interpolated into ClickHouse
// toStartOf<Interval> bucketing functions.
func IsValidInterval(interval string) bool {
	switch interval {
	case "Minute", "Hour", "Day", "Week", "Month", "Quarter", "Year":
		return true
	default:
		return false
	}
}

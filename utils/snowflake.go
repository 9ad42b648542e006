package utils

import "strconv"

// ParseSnowflake converts a Discord snowflake string to its numeric form.
func ParseSnowflake(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// FormatSnowflake renders a numeric ID back to its wire form.
func FormatSnowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}

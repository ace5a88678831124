package instance

import "os"

// GetID names the running process in logs. TABLEPOS_INSTANCE_ID wins over the
// platform-provided DYNO; "local" is used when neither is set.
func GetID() string {
	if id := os.Getenv("TABLEPOS_INSTANCE_ID"); id != "" {
		return id
	}
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	return "local"
}

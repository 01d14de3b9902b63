package instance

import "os"

// GetID identifies this process in logs. It prefers an explicit INSTANCE_ID,
// then the container hostname, then a fixed fallback.
func GetID() string {
	if id := os.Getenv("INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "standalone"
}

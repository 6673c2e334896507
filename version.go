// Package patrolgo provides the version information for patrol-go.
package patrolgo

// Version is the current version of patrol-go.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

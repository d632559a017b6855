package cache

import "strings"

const (
	GlobalKeyPrefix = "hiremate"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// ReportUpdateChannel is the pub/sub channel carrying live report updates
// for one attempt.
func ReportUpdateChannel(attemptID string) string {
	return strings.Join([]string{GlobalKeyPrefix, "report", "updates", attemptID}, ":")
}

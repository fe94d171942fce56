// Mercator Ganymede is a resilient JIRA proxy service.
//
// It fronts a JIRA Cloud instance with a hardened REST surface, providing:
//   - Automatic retry with exponential backoff and Retry-After handling
//   - Classified upstream errors mapped to clean HTTP statuses
//   - Custom field discovery with an in-memory TTL cache
//   - Issue, epic, story, board and sprint operations
//
// Usage:
//
//	# Start the server with default configuration
//	ganymede run
//
//	# Start with a custom configuration file
//	ganymede run --config /etc/ganymede/config.yaml
//
//	# Validate a configuration file
//	ganymede validate --config /etc/ganymede/config.yaml
//
//	# Show version information
//	ganymede version
package main

func main() {
	Execute()
}

package redisstore

import "fmt"

// Redis key pattern helpers
//
// All Redis keys and Pub/Sub channels are namespaced so that several bored
// deployments can share one Redis server.
//
// Key pattern: bored:{namespace}:blob:{id}
// Channel pattern: bored:{namespace}:blob:{id}:updates

const (
	fieldContent = "content"
	fieldCounter = "counter"
)

// BlobKey returns the Redis key for the hash holding a blob and its counter.
// Pattern: bored:{namespace}:blob:{id}
func BlobKey(namespace, id string) string {
	return fmt.Sprintf("bored:%s:blob:%s", namespace, id)
}

// UpdatesChannel returns the Pub/Sub channel announcing writes to a blob.
// Pattern: bored:{namespace}:blob:{id}:updates
func UpdatesChannel(namespace, id string) string {
	return fmt.Sprintf("bored:%s:blob:%s:updates", namespace, id)
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// keyNamespace prefixes every cache key so grasp entries are recognizable
// in shared backends such as Redis.
const keyNamespace = "grasp"

// hashKey builds a cache key of the form grasp:<kind>:<sha256(parts)>.
// The parts are JSON-encoded before hashing so that strings and flags
// cannot collide by concatenation.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s:%s", keyNamespace, kind, hex.EncodeToString(sum[:]))
}

// Hash returns the SHA-256 content hash of data as a 64-character hex
// string. Graph cache keys embed this hash of the source facts.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

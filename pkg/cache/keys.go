package cache

import "strings"

// Key types, the first segment of every key after the keyer prefix.
const (
	KeyResult = "result"
)

// Keyer derives cache keys. Its prefix separates namespaces sharing one
// back end, for example several servers on one Redis.
type Keyer struct {
	prefix string
}

// NewKeyer creates a keyer that prepends prefix to every key.
func NewKeyer(prefix string) Keyer {
	return Keyer{prefix: prefix}
}

// ResultKey returns the key of a query result. config must marshal to JSON
// deterministically; graphs are graph6 strings in query order.
func (k Keyer) ResultKey(query string, config any, graphs ...string) string {
	return k.prefix + hashKey(KeyResult, query, config, graphs)
}

// keyType returns the key type of key, "" if it has none.
func keyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return ""
	}
	key = key[:i]
	if j := strings.LastIndexByte(key, ':'); j >= 0 {
		key = key[j+1:]
	}
	return key
}

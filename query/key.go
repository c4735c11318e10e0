package query

import (
	"net/url"
	"strings"
)

// Key identifies a fetchable resource. Equality is by value.
type Key string

// NoKey is the null key. A query holding NoKey is inactive.
const NoKey Key = ""

// IsNull reports whether k is the null key.
func (k Key) IsNull() bool {
	return k == NoKey
}

// String returns the key as a request path.
func (k Key) String() string {
	return string(k)
}

// HasPrefix reports whether the key starts with prefix.
func (k Key) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(k), prefix)
}

// NewKey builds a key of the form "<path>?<query>". The query string is
// encoded by url.Values.Encode, which sorts parameters, so equal inputs always
// produce equal keys. An empty path yields NoKey.
func NewKey(path string, params url.Values) Key {
	if path == "" {
		return NoKey
	}
	if encoded := params.Encode(); encoded != "" {
		return Key(path + "?" + encoded)
	}
	return Key(path)
}

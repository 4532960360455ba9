// Package expand resolves ${env.KEY} expressions in configuration values so
// that data and log locations can be parameterised per environment.
package expand

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// Env replaces every ${env.KEY} occurrence in value with the content of the
// environment variable KEY (empty string when unset). Malformed expressions,
// such as a missing closing brace or a key with illegal characters, are left
// untouched.
func Env(value string) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], envPrefix)
		if idx < 0 {
			b.WriteString(value[i:])
			break
		}
		b.WriteString(value[i : i+idx])
		keyStart := i + idx + len(envPrefix)
		keyEnd := strings.IndexByte(value[keyStart:], '}')
		if keyEnd < 0 {
			b.WriteString(value[i+idx:])
			break
		}
		key := value[keyStart : keyStart+keyEnd]
		if !validKey(key) {
			b.WriteString(value[i+idx : keyStart])
			i = keyStart
			continue
		}
		b.WriteString(os.Getenv(key))
		i = keyStart + keyEnd + 1
	}
	return b.String()
}

func validKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}

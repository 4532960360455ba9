package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		input    string
		expected string
	}{
		{
			name:     "no expressions",
			input:    "file:///var/tarmac/data",
			expected: "file:///var/tarmac/data",
		},
		{
			name:     "single expression",
			env:      map[string]string{"TARMAC_HOME": "/opt/tarmac"},
			input:    "${env.TARMAC_HOME}/data",
			expected: "/opt/tarmac/data",
		},
		{
			name:     "repeated expression",
			env:      map[string]string{"A": "1", "B": "2"},
			input:    "${env.A}-${env.B}-${env.A}",
			expected: "1-2-1",
		},
		{
			name:     "unset variable becomes empty",
			input:    "x=${env.TARMAC_UNSET}!",
			expected: "x=!",
		},
		{
			name:     "missing closing brace kept literal",
			env:      map[string]string{"X": "x"},
			input:    "a ${env.X b",
			expected: "a ${env.X b",
		},
		{
			name:     "invalid key kept literal",
			input:    "a ${env.FO O} b",
			expected: "a ${env.FO O} b",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.expected, Env(tc.input))
		})
	}
}

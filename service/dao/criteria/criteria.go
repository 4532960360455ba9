// Package criteria evaluates dao.Parameter filters against entity attributes.
package criteria

import (
	"github.com/viant/tarmac/service/dao"
)

// MatchState reports whether an entity in the given lifecycle state passes
// the supplied parameters. An empty parameter list matches everything.
func MatchState(state string, parameters []*dao.Parameter) bool {
	if len(parameters) != 1 || parameters[0].Name != "State" {
		return true
	}
	switch actual := parameters[0].Value.(type) {
	case string:
		return state == actual
	case []string:
		for _, s := range actual {
			if state == s {
				return true
			}
		}
		return false
	}
	return true
}

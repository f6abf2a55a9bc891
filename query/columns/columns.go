// Package columns projects caller-supplied data down to the set of fields
// allowed by a model's fillable/guarded policy.
package columns

import "github.com/goquent/goquent/runtime/types"

// Project returns the subset of data admitted by the policy. A key is kept
// iff (fillable is empty OR the key is fillable) AND (guarded is empty OR
// the key is not guarded). Both lists empty means identity.
func Project(data types.Row, fillable, guarded []string) types.Row {
	out := make(types.Row, len(data))
	for key, value := range data {
		if admitted(key, fillable, guarded) {
			out[key] = value
		}
	}
	return out
}

func admitted(key string, fillable, guarded []string) bool {
	if len(fillable) > 0 && !contains(fillable, key) {
		return false
	}
	if len(guarded) > 0 && contains(guarded, key) {
		return false
	}
	return true
}

func contains(list []string, key string) bool {
	for _, s := range list {
		if s == key {
			return true
		}
	}
	return false
}

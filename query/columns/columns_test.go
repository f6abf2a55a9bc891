package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goquent/goquent/runtime/types"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name     string
		data     types.Row
		fillable []string
		guarded  []string
		want     types.Row
	}{
		{
			name:     "fillable only",
			data:     types.Row{"a": 1, "b": 2, "c": 3},
			fillable: []string{"a", "b"},
			want:     types.Row{"a": 1, "b": 2},
		},
		{
			name:    "guarded only",
			data:    types.Row{"a": 1, "b": 2},
			guarded: []string{"b"},
			want:    types.Row{"a": 1},
		},
		{
			name: "both empty is identity",
			data: types.Row{"a": 1, "b": 2},
			want: types.Row{"a": 1, "b": 2},
		},
		{
			name:     "guarded wins over fillable",
			data:     types.Row{"a": 1, "b": 2},
			fillable: []string{"a", "b"},
			guarded:  []string{"b"},
			want:     types.Row{"a": 1},
		},
		{
			name:     "empty input",
			data:     types.Row{},
			fillable: []string{"a"},
			want:     types.Row{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Project(tt.data, tt.fillable, tt.guarded))
		})
	}
}

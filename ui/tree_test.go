package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrefix(t *testing.T) {
	var b TreePrefixBuilder

	tests := []struct {
		name         string
		depth        int
		isLast       bool
		parentIsLast []bool
		want         string
	}{
		{
			name:  "root has no prefix",
			depth: 0,
			want:  "",
		},
		{
			name:   "first level branch",
			depth:  1,
			isLast: false,
			want:   "├── ",
		},
		{
			name:   "first level last branch",
			depth:  1,
			isLast: true,
			want:   "└── ",
		},
		{
			name:         "nested under continuing parent",
			depth:        2,
			isLast:       false,
			parentIsLast: []bool{false},
			want:         "│   ├── ",
		},
		{
			name:         "nested under last parent",
			depth:        2,
			isLast:       true,
			parentIsLast: []bool{true},
			want:         "    └── ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.BuildPrefix(tt.depth, tt.isLast, tt.parentIsLast))
		})
	}
}

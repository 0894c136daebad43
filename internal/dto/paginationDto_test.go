package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQueryNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         PageQuery
		wantLimit  int
		wantOffset int
	}{
		{"defaults survive", PageQuery{Limit: 20, Offset: 0}, 20, 0},
		{"zero limit falls back", PageQuery{Limit: 0}, 20, 0},
		{"negative limit falls back", PageQuery{Limit: -5}, 20, 0},
		{"oversized limit is clamped", PageQuery{Limit: 500}, 100, 0},
		{"negative offset is zeroed", PageQuery{Limit: 10, Offset: -3}, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			q.Normalize()
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.Equal(t, tt.wantOffset, q.Offset)
		})
	}
}

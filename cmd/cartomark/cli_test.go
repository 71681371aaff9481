package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLabel(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		describe string
	}{
		{"Camp | Base camp", "Camp", "Base camp"},
		{"Camp|Base camp", "Camp", "Base camp"},
		{"Camp", "Camp", ""},
		{"Camp | with | pipes", "Camp", "with | pipes"},
		{"  padded  |  trimmed  ", "padded", "trimmed"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, description := splitLabel(tt.in)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.describe, description)
		})
	}
}

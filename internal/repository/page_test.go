package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		want          Page
	}{
		{"in range", 10, 20, Page{Limit: 10, Offset: 20}},
		{"limit ceiling", 1000, 0, Page{Limit: 50, Offset: 0}},
		{"limit floor", 0, 0, Page{Limit: 1, Offset: 0}},
		{"negative limit", -5, 0, Page{Limit: 1, Offset: 0}},
		{"negative offset", 5, -1, Page{Limit: 5, Offset: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPage(tt.limit, tt.offset))
		})
	}
}

func TestClampCommentLimit(t *testing.T) {
	assert.Equal(t, 0, ClampCommentLimit(-1))
	assert.Equal(t, 0, ClampCommentLimit(0))
	assert.Equal(t, 7, ClampCommentLimit(7))
	assert.Equal(t, 50, ClampCommentLimit(51))
}

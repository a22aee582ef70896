package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateShortID(t *testing.T) {
	valid := []string{"SMITH01", "LOFT02", "ABC1234", "ABCDEF01", "KIM99"}
	for _, id := range valid {
		p := &Project{ShortID: id}
		assert.NoError(t, p.ValidateShortID(), "should accept %q", id)
	}

	cases := []struct {
		id      string
		wantMsg string
	}{
		{"", "required"},
		{"smith01", "uppercase"},
		{"AB1", "uppercase"},
		{"PENTHOUSE", "digits"},
	}
	for _, tc := range cases {
		p := &Project{ShortID: tc.id}
		err := p.ValidateShortID()
		require.Error(t, err, "id=%q", tc.id)
		assert.Contains(t, err.Error(), tc.wantMsg)
	}
}

func TestDisplayID(t *testing.T) {
	assert.Equal(t, "SMITH01", (&Project{ID: "550e8400-e29b-41d4-a716-446655440000", ShortID: "SMITH01"}).DisplayID())
	assert.Equal(t, "550e8400", (&Project{ID: "550e8400-e29b-41d4-a716-446655440000"}).DisplayID())
	assert.Equal(t, "abc", (&Project{ID: "abc"}).DisplayID())
}

func TestIsArchived(t *testing.T) {
	p := &Project{}
	assert.False(t, p.IsArchived())
	now := time.Now()
	p.ArchivedAt = &now
	assert.True(t, p.IsArchived())
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"airdrop-backend/internal/session"
)

func TestUserID(t *testing.T) {
	assert.Equal(t, "github::42", UserID("github", "42"))
	assert.Equal(t, "twitter::1234567890", UserID("twitter", "1234567890"))
}

func TestBoundUserIDs(t *testing.T) {
	assert.Empty(t, BoundUserIDs(&session.Session{}))

	sess := &session.Session{
		GitHub:  &session.Identity{ID: "42", Username: "octocat"},
		Twitter: &session.Identity{ID: "7", Username: "jack"},
	}
	assert.Equal(t, []string{"github::42", "twitter::7"}, BoundUserIDs(sess))

	// Identities with missing fields do not count as signed in.
	sess = &session.Session{
		GitHub:  &session.Identity{ID: "42"},
		Twitter: &session.Identity{Username: "jack"},
	}
	assert.Empty(t, BoundUserIDs(sess))
}

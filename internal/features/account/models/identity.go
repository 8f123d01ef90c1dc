package models

import "airdrop-backend/internal/session"

// UserID builds the canonical internal user id for a provider-native account
// id. The same rule keys ledger rows and interprets session identities.
func UserID(provider, id string) string {
	return provider + "::" + id
}

// BoundUserIDs collects the internal user ids for every identity bound to the
// session. Identities missing an id or username are ignored.
func BoundUserIDs(sess *session.Session) []string {
	var userIDs []string
	if sess.GitHub != nil && sess.GitHub.ID != "" && sess.GitHub.Username != "" {
		userIDs = append(userIDs, UserID("github", sess.GitHub.ID))
	}
	if sess.Twitter != nil && sess.Twitter.ID != "" && sess.Twitter.Username != "" {
		userIDs = append(userIDs, UserID("twitter", sess.Twitter.ID))
	}
	return userIDs
}

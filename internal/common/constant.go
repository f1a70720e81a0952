package common

// SessionTokenKey is the well-known key in the local state store under which
// the opaque session token is persisted.
const SessionTokenKey = "session_token"

// SessionSavedAtKey records when the token was last written, stored next to
// the token in the same transaction.
const SessionSavedAtKey = "session_saved_at"

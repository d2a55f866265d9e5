package auth

// Principal is the authenticated user identity established by the
// OAuth handshake. It lives in the session for the duration of a
// request and is only ever persisted denormalized into saved records.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
}

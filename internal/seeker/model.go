package seeker

import "github.com/golang-cafe/hireboard/internal/remote"

// Summary is one row of the employer-facing talent search.
type Summary struct {
	UserID   remote.Value `json:"user_id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
}

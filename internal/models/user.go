// Package models contains data structures for the application's domain models.
package models

// User represents a registered family member account.
//
// Records are created at registration and never mutated or deleted
// afterwards. The Password field holds a bcrypt hash, never plaintext;
// it is serialized because the struct doubles as the on-disk record, so
// API responses must go through Public instead.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// PublicUser is the JSON-safe projection of a User.
type PublicUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Public returns the user without the password hash.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

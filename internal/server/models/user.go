package models

import "time"

// UserAccount is the single admin account. RefreshToken is set on login and
// checked on refresh; it is empty until the first login.
type UserAccount struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"createdAt"`
	RefreshToken string    `json:"refreshToken,omitempty"`
}

// UserDocument is the persisted shape of users.json.
type UserDocument struct {
	Users []UserAccount `json:"users"`
}

// Admin returns the admin account, or nil if the document has none.
func (d *UserDocument) Admin() *UserAccount {
	for i := range d.Users {
		if d.Users[i].Username == "admin" {
			return &d.Users[i]
		}
	}
	return nil
}

// ByID returns the account with the given id, or nil.
func (d *UserDocument) ByID(id string) *UserAccount {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

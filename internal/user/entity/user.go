package entity

import "time"

// User is the persisted account record. PasswordHash never leaves the service layer.
type User struct {
	ID           string     `db:"id" bson:"_id" json:"id"`
	Email        string     `db:"email" bson:"email" json:"email"`
	Username     string     `db:"username" bson:"username" json:"username"`
	PasswordHash string     `db:"password_hash" bson:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" bson:"updated_at" json:"updated_at"`
	LastLoginAt  *time.Time `db:"last_login_at" bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
}

// View is the sanitized projection returned to callers.
type View struct {
	ID       string `db:"id" bson:"_id" json:"id"`
	Email    string `db:"email" bson:"email" json:"email"`
	Username string `db:"username" bson:"username" json:"username"`
}

func (u *User) View() *View {
	return &View{ID: u.ID, Email: u.Email, Username: u.Username}
}

package domain

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Identity is the verified subject of a token. It never changes once issued.
type Identity struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

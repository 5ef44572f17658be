package models

import "time"

// Gender values accepted for a user profile.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// User represents a member profile
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	Gender       string    `json:"gender"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	KnownAs      string    `json:"known_as"`
	Introduction string    `json:"introduction"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Created      time.Time `json:"created"`
	LastActive   time.Time `json:"last_active"`
}

// Age returns the user's age in whole years as of the given date.
func (u User) Age(now time.Time) int {
	age := now.Year() - u.DateOfBirth.Year()
	if now.Month() < u.DateOfBirth.Month() ||
		(now.Month() == u.DateOfBirth.Month() && now.Day() < u.DateOfBirth.Day()) {
		age--
	}
	return age
}

// Photo represents a profile photo owned by a user
type Photo struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	URL       string    `json:"url"`
	PublicID  *string   `json:"public_id,omitempty"`
	IsMain    bool      `json:"is_main"`
	DateAdded time.Time `json:"date_added"`
}

// Like is a directed edge: liker likes likee. A mutual like is both
// directions being present; it is never stored as its own row.
type Like struct {
	LikerID int64 `json:"liker_id"`
	LikeeID int64 `json:"likee_id"`
}

// Message is a one-directional private message. Each participant hides
// it from their own view with their deleted flag; the row is physically
// removed only once both flags are set.
type Message struct {
	ID               int64      `json:"id"`
	SenderID         int64      `json:"sender_id"`
	RecipientID      int64      `json:"recipient_id"`
	Content          string     `json:"content"`
	IsRead           bool       `json:"is_read"`
	DateRead         *time.Time `json:"date_read,omitempty"`
	MessageSent      time.Time  `json:"message_sent"`
	SenderDeleted    bool       `json:"-"`
	RecipientDeleted bool       `json:"-"`
}

package model

import "time"

// Match rows store the pair in canonical order: User1ID < User2ID.
type Match struct {
	ID            int64      `json:"id"`
	User1ID       int64      `json:"user1_id"`
	User2ID       int64      `json:"user2_id"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// OtherUser returns the side of the pair that is not userID.
func (m Match) OtherUser(userID int64) int64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// Has reports whether userID is a member of the pair.
func (m Match) Has(userID int64) bool {
	return m.User1ID == userID || m.User2ID == userID
}

type Message struct {
	ID        int64      `json:"id"`
	MatchID   int64      `json:"match_id"`
	SenderID  int64      `json:"sender_id"`
	Text      string     `json:"text"`
	ImageURL  string     `json:"image_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

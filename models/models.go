package models

import "time"

// User represents a registrant. token_used flips false->true exactly once,
// when the voting token is consumed. Rows are never deleted.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	TokenUsed bool      `gorm:"not null;default:false" json:"token_used"`
	CreatedAt time.Time `json:"created_at"`
}

// Candidate is seeded administratively and read-only for the voting flow.
type Candidate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ImageURL    *string   `gorm:"type:text" json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Vote deliberately carries no reference to the voter. The absence of a
// user column is the anonymity guarantee; no schema change may add one.
type Vote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CandidateID uint      `gorm:"not null;index" json:"candidate_id"`
	Candidate   Candidate `gorm:"foreignKey:CandidateID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

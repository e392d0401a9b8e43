package domain

import "time"

// Token is the metadata of an issued bearer token.
type Token struct {
	ID        string
	SubjectID string
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

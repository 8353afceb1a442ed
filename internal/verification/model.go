package verification

import "time"

// Record mirrors one row of the verifications table. Records are created by
// the bot when it issues a one-time token; this service only updates them.
type Record struct {
	UserID     string
	PublicKey  string
	Token      string
	Verified   bool
	VerifiedAt time.Time
}

// Outcome is the terminal result of a completed verification attempt.
type Outcome struct {
	UserID    string
	PublicKey string
	Verified  bool
}

package event

import "time"

const ChallengeChangedDestination string = "verification_challenge_changed"
const ChallengeChangedDestinationConsumerRealtime string = "verification_challenge_changed_realtime"

// ChallengeFeed is the change feed name challenge events are republished on.
const ChallengeFeed string = "challenge"

const (
	ChallengeIssued   string = "challenge.issued"
	ChallengeVerified string = "challenge.verified"
	ChallengeFailed   string = "challenge.failed"
	ChallengeLocked   string = "challenge.locked"
)

// ChallengeChangedMessage never carries the code or its hash.
type ChallengeChangedMessage struct {
	ID         int64     `json:"id,string"`
	Type       string    `json:"type"`
	Email      string    `json:"email"`
	Attempts   int       `json:"attempts"`
	Remaining  int       `json:"remaining"`
	ExpiresAt  time.Time `json:"expires_at,omitzero"`
	OccurredAt time.Time `json:"occurred_at"`
}

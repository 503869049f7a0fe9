package models

import "time"

// Tier is a user's entitlement level.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// User is created lazily on first reference and never deleted. The tier
// only changes through checkout completion.
type User struct {
	UserID       string    `json:"user_id"`
	Subscription Tier      `json:"subscription"`
	CreatedAt    time.Time `json:"created_at"`
}

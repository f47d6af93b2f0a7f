package model

import "time"

// VariantRecord is the persisted assignment for one identity pair, unique on
// (user_id, subscription_id). Immutable once written.
type VariantRecord struct {
	UserId         string  `json:"user_id"`
	SubscriptionId string  `json:"subscription_id"`
	Variant        Variant `json:"variant"`
}

type CancellationRecord struct {
	UserId           string    `json:"user_id"`
	SubscriptionId   string    `json:"subscription_id"`
	DownsellVariant  Variant   `json:"downsell_variant"`
	AcceptedDownsell bool      `json:"accepted_downsell"`
	Reason           string    `json:"reason"`
	CreatedAt        time.Time `json:"created_at"`
}

type SubscriptionStatus string

const SUBSCRIPTION_ACTIVE SubscriptionStatus = "active"
const SUBSCRIPTION_PENDING_CANCELLATION SubscriptionStatus = "pending_cancellation"
const SUBSCRIPTION_CANCELLED SubscriptionStatus = "cancelled"

package entity

import "time"

// IdempotencyKey stores a processed request so a retried submission replays
// the first response instead of recording the job twice.
type IdempotencyKey struct {
	Key          string    `json:"key"`
	Endpoint     string    `json:"endpoint"`
	RequestHash  string    `json:"requestHash"`
	ResponseCode int       `json:"responseCode"`
	ResponseBody string    `json:"responseBody"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

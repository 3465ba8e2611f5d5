package auth

import "time"

// Claims is the identity carried by an auth token: who the caller is and, for
// sellers, which shop they own.
type Claims struct {
	AccountID int64  `json:"account_id"`
	Role      string `json:"role"`
	Shop      string `json:"shop,omitempty"`
	ExpiresAt int64  `json:"exp"`
}

type Strategy interface {
	IssueToken(claims Claims) (string, error)
	ParseToken(token string) (*Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}

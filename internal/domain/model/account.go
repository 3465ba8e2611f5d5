package model

import "time"

// Role distinguishes marketplace participants.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Account represents a registered marketplace participant. Balance is stored
// in minor currency units (cents) and never goes negative.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Shop         string
	Balance      int64
	CreatedAt    time.Time
}

// IsSeller reports whether the account owns a shop.
func (a *Account) IsSeller() bool {
	return a.Role == RoleSeller && a.Shop != ""
}

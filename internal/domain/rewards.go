package domain

import "time"

// TransactionType marks a points transaction as earning or redemption.
type TransactionType string

const (
	TransactionEarned   TransactionType = "earned"
	TransactionRedeemed TransactionType = "redeemed"
)

// RewardsAccount holds the point balances for one cart owner.
// Available is always TotalEarned minus TotalRedeemed.
type RewardsAccount struct {
	CartID        string `json:"-"`
	Available     int64  `json:"available"`
	TotalEarned   int64  `json:"totalEarned"`
	TotalRedeemed int64  `json:"totalRedeemed"`
}

// PointsTransaction is an append-only ledger entry. OrderID guards
// against a retried checkout writing the same entry twice.
type PointsTransaction struct {
	ID          string          `json:"id"`
	CartID      string          `json:"-"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description,omitempty"`
	OrderID     string          `json:"orderId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

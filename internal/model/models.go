// Package model defines the data models shared across the crate casino backend.
package model

import "time"

// Profile represents a player account. Balance is in whole coins.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Balance   int64     `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Item is one owned inventory row. It is created when a crate or upgrade is
// won and destroyed when sold or consumed by an upgrade attempt.
//
// CurrentValue equals BaseValue on a fresh drop and diverges after an
// upgrade, where the awarded value is computed from the input item rather
// than taken from the template.
type Item struct {
	ID           string    `db:"id" json:"id"`
	ProfileID    string    `db:"profile_id" json:"profile_id"`
	Name         string    `db:"name" json:"name"`
	Rarity       string    `db:"rarity" json:"rarity"`
	Class        string    `db:"class" json:"class"`
	BaseValue    int64     `db:"base_value" json:"base_value"`
	CurrentValue int64     `db:"current_value" json:"current_value"`
	WonAt        time.Time `db:"won_at" json:"won_at"`
}

// Transaction represents a balance change record.
type Transaction struct {
	ID          int64     `db:"id" json:"id"`
	ProfileID   string    `db:"profile_id" json:"profile_id"`
	Amount      int64     `db:"amount" json:"amount"`
	Type        string    `db:"type" json:"type"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Transaction types for categorizing balance changes.
const (
	TxTypeInitial      = "initial"       // Starting balance on profile creation
	TxTypeCrateOpen    = "crate_open"    // Crate price debit
	TxTypeMinesBet     = "mines_bet"     // Mines stake debit
	TxTypeMinesCashout = "mines_cashout" // Mines payout credit
	TxTypeItemSale     = "item_sale"     // Inventory item sold for coins
	TxTypeAdminAdjust  = "admin_adjust"  // Manual balance correction
)

// GameTransactionTypes returns the transaction types produced by game play,
// as opposed to account management.
func GameTransactionTypes() []string {
	return []string{TxTypeCrateOpen, TxTypeMinesBet, TxTypeMinesCashout}
}

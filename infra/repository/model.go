// Package repository implements the read-model repositories and unit of
// work over gorm. Rows here are written only by the projector.
package repository

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a customer row of the read model.
type Customer struct {
	ID           string `gorm:"primaryKey;size:64"`
	NIC          string `gorm:"uniqueIndex;size:64;not null"`
	Firstname    string `gorm:"size:128;not null"`
	Name         string `gorm:"size:128;not null"`
	PlaceOfBirth string `gorm:"size:128"`
	DateOfBirth  time.Time
	Nationality  string `gorm:"size:64"`
	Sex          string `gorm:"size:1"`
	Creation     time.Time
	LastUpdate   *time.Time
}

// Account is an account row. CustomerID is unique: one account per customer.
type Account struct {
	ID         string `gorm:"primaryKey;size:64"`
	CustomerID string `gorm:"uniqueIndex;size:64;not null"`
	Balance    int64  `gorm:"not null"` // minor units, scale 2
	Status     string `gorm:"size:16;not null"`
	Creation   time.Time
	LastUpdate *time.Time
}

// Operation is one journal entry. Its id is derived from the event's
// (aggregateId, sequence), so re-projection is idempotent.
type Operation struct {
	ID          string `gorm:"primaryKey;size:64"`
	AccountID   string `gorm:"index;size:64;not null"`
	Type        string `gorm:"size:8;not null"`
	Amount      int64  `gorm:"not null"` // minor units, scale 2
	DateTime    time.Time
	Description string `gorm:"size:256"`
}

// Checkpoint is the projector's last committed offset, stored in the same
// database as the rows it guards.
type Checkpoint struct {
	ProjectorName    string `gorm:"primaryKey;size:64"`
	LastGlobalOffset uint64 `gorm:"not null"`
}

// Migrate creates the read-model tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Customer{}, &Account{}, &Operation{}, &Checkpoint{})
}

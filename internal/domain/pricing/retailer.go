package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
)

// RetailerStatus represents the account status of a retailer
type RetailerStatus string

const (
	RetailerStatusActive   RetailerStatus = "active"
	RetailerStatusInactive RetailerStatus = "inactive"
	RetailerStatusOnHold   RetailerStatus = "on_hold"
)

// IsValid returns true if the status is known
func (s RetailerStatus) IsValid() bool {
	switch s {
	case RetailerStatusActive, RetailerStatusInactive, RetailerStatusOnHold:
		return true
	}
	return false
}

// Retailer is a customer account that places orders
type Retailer struct {
	shared.BaseAggregateRoot
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	PricingTierID *uuid.UUID
	Status        RetailerStatus
}

// NewRetailer creates an active retailer without a tier
func NewRetailer(name string) (*Retailer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Retailer name cannot be empty")
	}
	return &Retailer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Status:            RetailerStatusActive,
	}, nil
}

// SetContact sets the contact details
func (r *Retailer) SetContact(person, email, phone, address string) {
	r.ContactPerson = person
	r.Email = email
	r.Phone = phone
	r.Address = address
	r.UpdatedAt = time.Now()
}

// AssignTier assigns or clears the retailer's general pricing tier
func (r *Retailer) AssignTier(tierID *uuid.UUID) {
	r.PricingTierID = tierID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// ChangeStatus moves the retailer to another account status
func (r *Retailer) ChangeStatus(status RetailerStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown retailer status '%s'", status))
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// IsActive returns true if the retailer may place orders
func (r *Retailer) IsActive() bool {
	return r.Status == RetailerStatusActive
}

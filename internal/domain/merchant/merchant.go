// Package merchant holds the merchant aggregate. Billing treats merchants as
// mostly opaque; only identity, status, and owner contact matter here.
package merchant

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusClosed    Status = "closed"
)

var validStatuses = map[Status]bool{
	StatusActive:    true,
	StatusSuspended: true,
	StatusClosed:    true,
}

type Merchant struct {
	id          uint
	sid         string
	name        string
	status      Status
	ownerEmail  string
	ownerUserID *uint
	createdAt   time.Time
	updatedAt   time.Time
}

func NewMerchant(sid, name, ownerEmail string, ownerUserID *uint) (*Merchant, error) {
	if sid == "" {
		return nil, fmt.Errorf("merchant sid is required")
	}
	if name == "" {
		return nil, fmt.Errorf("merchant name is required")
	}
	if ownerEmail == "" {
		return nil, fmt.Errorf("owner email is required")
	}

	now := time.Now()
	return &Merchant{
		sid:         sid,
		name:        name,
		status:      StatusActive,
		ownerEmail:  ownerEmail,
		ownerUserID: ownerUserID,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructMerchant(id uint, sid, name string, status Status,
	ownerEmail string, ownerUserID *uint, createdAt, updatedAt time.Time) (*Merchant, error) {

	if id == 0 {
		return nil, fmt.Errorf("merchant ID cannot be zero")
	}
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid merchant status: %s", status)
	}

	return &Merchant{
		id:          id,
		sid:         sid,
		name:        name,
		status:      status,
		ownerEmail:  ownerEmail,
		ownerUserID: ownerUserID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (m *Merchant) ID() uint {
	return m.id
}

// SetID assigns the database identity after insertion.
func (m *Merchant) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("merchant ID already set")
	}
	m.id = id
	return nil
}

func (m *Merchant) SID() string {
	return m.sid
}

func (m *Merchant) Name() string {
	return m.name
}

func (m *Merchant) Status() Status {
	return m.status
}

func (m *Merchant) OwnerEmail() string {
	return m.ownerEmail
}

func (m *Merchant) OwnerUserID() *uint {
	return m.ownerUserID
}

func (m *Merchant) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Merchant) UpdatedAt() time.Time {
	return m.updatedAt
}

// IsActive reports whether the merchant is eligible for subscription
// resolution and plan assignment.
func (m *Merchant) IsActive() bool {
	return m.status == StatusActive
}

func (m *Merchant) ChangeStatus(status Status) error {
	if !validStatuses[status] {
		return fmt.Errorf("invalid merchant status: %s", status)
	}
	m.status = status
	m.updatedAt = time.Now()
	return nil
}

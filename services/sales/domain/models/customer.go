package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a buyer. Customers are edited but never deleted so purchases
// keep their attribution.
type Customer struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Phone         string
	Company       string
	Industry      string
	Segment       string
	Status        string
	LeadSource    string
	AddressLine1  string
	AddressLine2  string
	City          string
	State         string
	Country       string
	PostalCode    string
	Notes         string
	LastContactAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewCustomer constructs a Customer with a generated ID stamped with now.
func NewCustomer(name string, now time.Time) *Customer {
	now = now.UTC()
	return &Customer{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Merge copies every non-empty field of other onto c. Identity and
// timestamps are left alone.
func (c *Customer) Merge(other *Customer) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Name, other.Name)
	set(&c.Email, other.Email)
	set(&c.Phone, other.Phone)
	set(&c.Company, other.Company)
	set(&c.Industry, other.Industry)
	set(&c.Segment, other.Segment)
	set(&c.Status, other.Status)
	set(&c.LeadSource, other.LeadSource)
	set(&c.AddressLine1, other.AddressLine1)
	set(&c.AddressLine2, other.AddressLine2)
	set(&c.City, other.City)
	set(&c.State, other.State)
	set(&c.Country, other.Country)
	set(&c.PostalCode, other.PostalCode)
	set(&c.Notes, other.Notes)
	if other.LastContactAt != nil {
		t := *other.LastContactAt
		c.LastContactAt = &t
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgvalidator "github.com/ghuser/salesdesk/pkg/validator"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
	"github.com/ghuser/salesdesk/services/sales/domain/repositories"
	domainsvcs "github.com/ghuser/salesdesk/services/sales/domain/services"
)

// CustomerService manages customers. Customers are never deleted.
type CustomerService struct {
	repo repositories.CustomerRepository
	now  func() time.Time
}

// NewCustomerService returns a CustomerService backed by repo.
func NewCustomerService(repo repositories.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo, now: time.Now}
}

// Create validates and persists a new customer.
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	if err := pkgvalidator.Validate(in); err != nil {
		return nil, salesdomain.Invalid("%s", pkgvalidator.Describe(err))
	}
	c := models.NewCustomer(in.Name, s.now())
	c.Merge(fromInput(in))

	if err := domainsvcs.ValidateCustomer(c); err != nil {
		return nil, fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	return c, nil
}

// Upsert finds an existing customer by email, then by exact name, and
// overwrites only the non-empty fields of in. Otherwise it creates one.
// The bool reports whether a customer was created.
func (s *CustomerService) Upsert(ctx context.Context, in CustomerInput) (*models.Customer, bool, error) {
	if err := pkgvalidator.Validate(in); err != nil {
		return nil, false, salesdomain.Invalid("%s", pkgvalidator.Describe(err))
	}

	existing, err := s.match(ctx, in)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		c, err := s.Create(ctx, in)
		return c, err == nil, err
	}

	existing.Merge(fromInput(in))
	if err := s.save(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *CustomerService) match(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	if email := strings.TrimSpace(in.Email); email != "" {
		c, err := s.repo.FindByEmail(ctx, email)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, salesdomain.ErrCustomerNotFound) {
			return nil, fmt.Errorf("find customer by email: %w", err)
		}
	}
	c, err := s.repo.FindByName(ctx, in.Name)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, salesdomain.ErrCustomerNotFound) {
		return nil, nil
	}
	return nil, fmt.Errorf("find customer by name: %w", err)
}

// Update applies the non-nil fields of in. Unlike Upsert, a non-nil empty
// string clears the field.
func (s *CustomerService) Update(ctx context.Context, rawID string, in CustomerUpdate) (*models.Customer, error) {
	if err := pkgvalidator.Validate(in); err != nil {
		return nil, salesdomain.Invalid("%s", pkgvalidator.Describe(err))
	}
	c, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		src *string
		dst *string
	}{
		{in.Name, &c.Name},
		{in.Email, &c.Email},
		{in.Phone, &c.Phone},
		{in.Company, &c.Company},
		{in.Industry, &c.Industry},
		{in.Segment, &c.Segment},
		{in.Status, &c.Status},
		{in.LeadSource, &c.LeadSource},
		{in.AddressLine1, &c.AddressLine1},
		{in.AddressLine2, &c.AddressLine2},
		{in.City, &c.City},
		{in.State, &c.State},
		{in.Country, &c.Country},
		{in.PostalCode, &c.PostalCode},
		{in.Notes, &c.Notes},
	}
	for _, f := range fields {
		if f.src != nil {
			*f.dst = strings.TrimSpace(*f.src)
		}
	}
	if in.LastContactAt != nil {
		t := in.LastContactAt.UTC()
		c.LastContactAt = &t
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the customer with the given id.
func (s *CustomerService) Get(ctx context.Context, rawID string) (*models.Customer, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, salesdomain.Invalid("customer id %q is not a UUID", rawID)
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// Resolve finds a customer by id, email or exact name, in that order.
func (s *CustomerService) Resolve(ctx context.Context, ref string) (*models.Customer, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, salesdomain.Invalid("customer reference is empty")
	}
	if _, err := uuid.Parse(ref); err == nil {
		return s.Get(ctx, ref)
	}
	find := s.repo.FindByName
	if strings.Contains(ref, "@") {
		find = s.repo.FindByEmail
	}
	c, err := find(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}
	return c, nil
}

// List returns customers ordered by name. limit <= 0 returns all.
func (s *CustomerService) List(ctx context.Context, limit int) ([]*models.Customer, error) {
	return s.Search(ctx, "", limit)
}

// Search matches query against name, email or company. limit <= 0 returns all.
func (s *CustomerService) Search(ctx context.Context, query string, limit int) ([]*models.Customer, error) {
	cs, err := s.repo.Search(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return cs, nil
}

func (s *CustomerService) save(ctx context.Context, c *models.Customer) error {
	if err := domainsvcs.ValidateCustomer(c); err != nil {
		return fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
	}
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func fromInput(in CustomerInput) *models.Customer {
	c := &models.Customer{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        strings.TrimSpace(in.Phone),
		Company:      strings.TrimSpace(in.Company),
		Industry:     strings.TrimSpace(in.Industry),
		Segment:      strings.TrimSpace(in.Segment),
		Status:       strings.TrimSpace(in.Status),
		LeadSource:   strings.TrimSpace(in.LeadSource),
		AddressLine1: strings.TrimSpace(in.AddressLine1),
		AddressLine2: strings.TrimSpace(in.AddressLine2),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		Country:      strings.TrimSpace(in.Country),
		PostalCode:   strings.TrimSpace(in.PostalCode),
		Notes:        strings.TrimSpace(in.Notes),
	}
	if in.LastContactAt != nil {
		t := in.LastContactAt.UTC()
		c.LastContactAt = &t
	}
	return c
}

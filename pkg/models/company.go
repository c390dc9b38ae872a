package models

import "time"

// Company is a tenant account, the root of the ownership tree. Workstreams,
// knowledge-base assets, and users reference it by CompanyID.
type Company struct {
	ID           string    `json:"id"   validate:"required"`
	Name         string    `json:"name" validate:"required"`
	Slug         string    `json:"slug" validate:"required"` // Unique, URL-safe
	CreatedAt    time.Time `json:"createdAt"`
	LastModified string    `json:"lastModified"`
}

func (c *Company) GetID() string {
	return c.ID
}

// User belongs to exactly one company.
type User struct {
	ID           string    `json:"id"        validate:"required"`
	CompanyID    string    `json:"companyId" validate:"required"`
	Email        string    `json:"email"     validate:"required,email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified string    `json:"lastModified"`
}

func (u *User) GetID() string {
	return u.ID
}

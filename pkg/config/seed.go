// Package config provides seed data loading for demo and development
// environments.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/services"
	"gopkg.in/yaml.v3"
)

// SeedFile is the structure of the seed.yaml file: a set of companies, each
// with its workstreams and their initial sub-entities.
type SeedFile struct {
	Companies []SeedCompany `yaml:"companies"`
}

// SeedCompany describes one company to create.
type SeedCompany struct {
	Name        string           `yaml:"name"`
	Users       []SeedUser       `yaml:"users"`
	Workstreams []SeedWorkstream `yaml:"workstreams"`
}

// SeedUser describes one user to attach to a company.
type SeedUser struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

// SeedWorkstream describes one workstream to create.
type SeedWorkstream struct {
	Name              string       `yaml:"name"`
	Description       string       `yaml:"description"`
	Type              string       `yaml:"type"`
	SuccessDefinition string       `yaml:"success_definition"`
	VolumePerMonth    int          `yaml:"volume_per_month"`
	Entities          []SeedEntity `yaml:"entities"`
}

// SeedEntity describes one sub-entity in the workstream's active collection.
type SeedEntity struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	VolumePerMonth int    `yaml:"volume_per_month"`
}

// LoadSeedFile loads seed data from a YAML file.
func LoadSeedFile(filepath string) (*SeedFile, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", filepath, err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", filepath, err)
	}

	return &seed, nil
}

// Apply creates the seed entities through the service layer so slugs,
// defaults, and validation behave exactly as they do for API callers.
// Companies whose slug already exists are skipped, which makes seeding
// idempotent across restarts.
func (s *SeedFile) Apply(ctx context.Context, companies *services.Company, workstreams *services.Workstream) error {
	for _, sc := range s.Companies {
		if existing, err := companies.GetBySlug(ctx, services.Slugify(sc.Name)); err == nil && existing != nil {
			continue
		}

		company, err := companies.Create(ctx, sc.Name)
		if err != nil {
			return fmt.Errorf("failed to seed company %q: %w", sc.Name, err)
		}

		for _, su := range sc.Users {
			_, err := companies.AddUser(ctx, &models.User{
				CompanyID: company.ID,
				Name:      su.Name,
				Email:     su.Email,
				Role:      su.Role,
			})
			if err != nil {
				return fmt.Errorf("failed to seed user %q: %w", su.Email, err)
			}
		}

		for _, sw := range sc.Workstreams {
			ws, err := workstreams.Create(ctx, &models.Workstream{
				CompanyID:         company.ID,
				Name:              sw.Name,
				Description:       sw.Description,
				Type:              models.WorkstreamType(sw.Type),
				SuccessDefinition: sw.SuccessDefinition,
				VolumePerMonth:    sw.VolumePerMonth,
			})
			if err != nil {
				return fmt.Errorf("failed to seed workstream %q: %w", sw.Name, err)
			}

			for _, se := range sw.Entities {
				_, err := workstreams.AddEntity(ctx, ws.ID, ws.ActiveKind(), models.SubEntity{
					Name:           se.Name,
					Description:    se.Description,
					VolumePerMonth: se.VolumePerMonth,
				})
				if err != nil {
					return fmt.Errorf("failed to seed entity %q: %w", se.Name, err)
				}
			}
		}
	}

	return nil
}

package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/config"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/services"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `companies:
  - name: Acme Corp
    users:
      - name: Ada
        email: ada@acme.test
        role: admin
    workstreams:
      - name: Billing Support
        description: Inbound billing questions
        type: inbound
        success_definition: Resolved without escalation
        volume_per_month: 1200
        entities:
          - name: Refund request
            description: Customer asks for a refund
            volume_per_month: 300
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadSeedFile(t *testing.T) {
	seed, err := config.LoadSeedFile(writeSeedFile(t, seedYAML))
	require.NoError(t, err)

	require.Len(t, seed.Companies, 1)
	company := seed.Companies[0]
	assert.Equal(t, "Acme Corp", company.Name)
	require.Len(t, company.Users, 1)
	assert.Equal(t, "ada@acme.test", company.Users[0].Email)
	require.Len(t, company.Workstreams, 1)
	assert.Equal(t, "inbound", company.Workstreams[0].Type)
	assert.Equal(t, 1200, company.Workstreams[0].VolumePerMonth)
	require.Len(t, company.Workstreams[0].Entities, 1)
	assert.Equal(t, "Refund request", company.Workstreams[0].Entities[0].Name)
}

func TestLoadSeedFile_MissingFile(t *testing.T) {
	_, err := config.LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadSeedFile_InvalidYAML(t *testing.T) {
	_, err := config.LoadSeedFile(writeSeedFile(t, "companies: [unterminated"))
	require.Error(t, err)
}

func TestSeedFile_Apply(t *testing.T) {
	st := memory.New()
	companies := services.NewCompany(st, nil, slog.Default())
	workstreams := services.NewWorkstream(st)

	seed, err := config.LoadSeedFile(writeSeedFile(t, seedYAML))
	require.NoError(t, err)
	require.NoError(t, seed.Apply(t.Context(), companies, workstreams))

	company, err := companies.GetBySlug(t.Context(), "acme-corp")
	require.NoError(t, err)

	users, err := companies.ListUsers(t.Context(), company.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ada@acme.test", users[0].Email)

	list, err := workstreams.List(t.Context(), company.ID, models.WorkstreamTypeInbound)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Billing Support", list[0].Name)

	entities := list[0].Entities(list[0].ActiveKind())
	require.Len(t, entities, 1)
	assert.Equal(t, "Refund request", entities[0].Name)
}

func TestSeedFile_ApplyIsIdempotent(t *testing.T) {
	st := memory.New()
	companies := services.NewCompany(st, nil, slog.Default())
	workstreams := services.NewWorkstream(st)

	seed, err := config.LoadSeedFile(writeSeedFile(t, seedYAML))
	require.NoError(t, err)
	require.NoError(t, seed.Apply(t.Context(), companies, workstreams))
	require.NoError(t, seed.Apply(t.Context(), companies, workstreams))

	all, err := companies.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

package nested

import (
	"testing"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entities() []models.SubEntity {
	return []models.SubEntity{
		{ID: "e1", Name: "Billing question", VolumePerMonth: 1000},
		{ID: "e2", Name: "Password reset", VolumePerMonth: 2500},
		{ID: "e3", Name: "Cancellation", VolumePerMonth: 400},
	}
}

func TestUpdateElement(t *testing.T) {
	original := entities()

	updated, found := UpdateElement(original, ByID[models.SubEntity]("e2"), func(e models.SubEntity) models.SubEntity {
		e.Name = "Password & MFA reset"

		return e
	})

	require.True(t, found)
	assert.Equal(t, "Password & MFA reset", updated[1].Name)

	// Siblings pass through untouched, and the input slice is not mutated.
	assert.Equal(t, "Billing question", updated[0].Name)
	assert.Equal(t, "Cancellation", updated[2].Name)
	assert.Equal(t, "Password reset", original[1].Name)
}

func TestUpdateElement_NotFound(t *testing.T) {
	updated, found := UpdateElement(entities(), ByID[models.SubEntity]("missing"), func(e models.SubEntity) models.SubEntity {
		return e
	})

	assert.False(t, found)
	assert.Len(t, updated, 3)
}

func TestRemoveElement(t *testing.T) {
	updated, found := RemoveElement(entities(), ByID[models.SubEntity]("e1"))

	require.True(t, found)
	require.Len(t, updated, 2)
	assert.Equal(t, "e2", updated[0].ID)
	assert.Equal(t, "e3", updated[1].ID)
}

func TestRemoveElement_NotFound(t *testing.T) {
	updated, found := RemoveElement(entities(), ByID[models.SubEntity]("missing"))

	assert.False(t, found)
	assert.Len(t, updated, 3)
}

func TestAppendElement(t *testing.T) {
	original := entities()
	updated := AppendElement(original, models.SubEntity{ID: "e4"})

	assert.Len(t, original, 3)
	require.Len(t, updated, 4)
	assert.Equal(t, "e4", updated[3].ID)
}

func TestPatcher_ReplaceField(t *testing.T) {
	st := memory.New()

	id, err := st.Insert(t.Context(), store.CollectionWorkstreams, store.Document{
		"companyId":      "c1",
		"contactDrivers": []any{map[string]any{"id": "e1"}},
		"campaigns":      []any{map[string]any{"id": "x1", "name": "Winback"}},
		"lastModified":   "2020-01-01",
	})
	require.NoError(t, err)

	patcher := NewPatcher(st, store.CollectionWorkstreams)

	rewritten := []models.SubEntity{
		{ID: "e1", Name: "Billing question"},
		{ID: "e2", Name: "Password reset"},
	}
	require.NoError(t, patcher.ReplaceField(t.Context(), id, "contactDrivers", rewritten))

	doc, err := st.Get(t.Context(), store.CollectionWorkstreams, id)
	require.NoError(t, err)

	drivers, ok := doc["contactDrivers"].([]any)
	require.True(t, ok)
	assert.Len(t, drivers, 2)

	// The sibling collection is untouched and lastModified was bumped in
	// the same patch.
	campaigns, ok := doc["campaigns"].([]any)
	require.True(t, ok)
	assert.Len(t, campaigns, 1)
	assert.Equal(t, models.Today(), doc["lastModified"])
}

func TestPatcher_ReplaceFields(t *testing.T) {
	st := memory.New()

	id, err := st.Insert(t.Context(), store.CollectionWorkstreams, store.Document{
		"companyId": "c1",
		"flows":     []any{},
		"processes": []any{},
	})
	require.NoError(t, err)

	patcher := NewPatcher(st, store.CollectionWorkstreams)

	err = patcher.ReplaceFields(t.Context(), id, map[string]any{
		"flows":     []models.SubEntity{{ID: "f1"}},
		"processes": []models.SubEntity{{ID: "p1"}, {ID: "p2"}},
	})
	require.NoError(t, err)

	doc, err := st.Get(t.Context(), store.CollectionWorkstreams, id)
	require.NoError(t, err)

	flows, _ := doc["flows"].([]any)
	processes, _ := doc["processes"].([]any)
	assert.Len(t, flows, 1)
	assert.Len(t, processes, 2)
}

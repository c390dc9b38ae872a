package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/services"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store/memory"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	st := memory.New()
	logger := slog.Default()

	handlers := web.NewAPIHandlers(
		services.NewCompany(st, nil, logger),
		services.NewWorkstream(st),
		services.NewFlow(st, nil, logger),
		services.NewKnowledgeBase(st),
		validator.New(validator.WithRequiredStructEnabled()),
	)

	app := fiber.New()

	co := app.Group("/companies")
	co.Get("/", handlers.GetCompanies)
	co.Post("/", handlers.CreateCompany)
	co.Get("/by-slug/:slug", handlers.GetCompanyBySlug)
	co.Get("/:id", handlers.GetCompany)
	co.Patch("/:id", handlers.RenameCompany)
	co.Delete("/:id", handlers.DeleteCompany)
	co.Get("/:id/users", handlers.GetCompanyUsers)
	co.Post("/:id/users", handlers.CreateCompanyUser)

	w := app.Group("/workstreams")
	w.Get("/", handlers.GetWorkstreams)
	w.Post("/", handlers.CreateWorkstream)
	w.Get("/:id", handlers.GetWorkstream)
	w.Patch("/:id", handlers.UpdateWorkstream)
	w.Delete("/:id", handlers.DeleteWorkstream)
	w.Post("/:id/entities/:kind", handlers.CreateEntity)
	w.Patch("/:id/entities/:kind/:entityId", handlers.UpdateEntity)
	w.Delete("/:id/entities/:kind/:entityId", handlers.DeleteEntity)
	w.Post("/:id/entities/:kind/:entityId/flows", handlers.CreateFlow)
	w.Post("/:id/entities/:kind/:entityId/flows/import", handlers.ImportFlow)
	w.Post("/:id/entities/:kind/:entityId/flows/:flowId/duplicate", handlers.DuplicateFlow)
	w.Post("/:id/entities/:kind/:entityId/flows/:flowId/set-current", handlers.SetFlowAsCurrent)
	w.Delete("/:id/entities/:kind/:entityId/flows/:flowId", handlers.DeleteFlow)
	w.Put("/:id/entities/:kind/:entityId/flows/:flowId/graph", handlers.SaveFlowGraph)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader

	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, raw
}

func doRaw(t *testing.T, app *fiber.App, method, target, payload string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, raw
}

func createCompany(t *testing.T, app *fiber.App, name string) models.Company {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/companies/", web.CreateCompanyRequest{Name: name})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var company models.Company
	require.NoError(t, json.Unmarshal(body, &company))

	return company
}

func createWorkstream(t *testing.T, app *fiber.App, companyID string) models.Workstream {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/workstreams/", web.CreateWorkstreamRequest{
		CompanyID: companyID,
		Name:      "Inbound Support",
		Type:      "inbound",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var ws models.Workstream
	require.NoError(t, json.Unmarshal(body, &ws))

	return ws
}

func createEntity(t *testing.T, app *fiber.App, wsID string) models.SubEntity {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost,
		"/workstreams/"+wsID+"/entities/contact-driver",
		web.CreateEntityRequest{Name: "Billing question", VolumePerMonth: 800})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var entity models.SubEntity
	require.NoError(t, json.Unmarshal(body, &entity))

	return entity
}

func TestCreateCompany(t *testing.T) {
	app := setupTestApp(t)

	company := createCompany(t, app, "Acme Corp")
	assert.Equal(t, "acme-corp", company.Slug)

	resp, body := doJSON(t, app, http.MethodGet, "/companies/by-slug/acme-corp", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.Company
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, company.ID, fetched.ID)
}

func TestCreateCompany_Validation(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/companies/", web.CreateCompanyRequest{Name: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRaw(t, app, http.MethodPost, "/companies/", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCompany_NotFound(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/companies/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// RFC 7807 problem body.
	var problem map[string]any
	require.NoError(t, json.Unmarshal(body, &problem))
	assert.NotEmpty(t, problem["title"])
}

func TestCreateWorkstream_ByCompanySlug(t *testing.T) {
	app := setupTestApp(t)

	createCompany(t, app, "Acme")

	resp, body := doJSON(t, app, http.MethodPost, "/workstreams/", web.CreateWorkstreamRequest{
		CompanySlug: "acme",
		Name:        "Outbound Sales",
		Type:        "outbound",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var ws models.Workstream
	require.NoError(t, json.Unmarshal(body, &ws))
	assert.NotEmpty(t, ws.CompanyID)
	assert.Equal(t, models.WorkstreamTypeOutbound, ws.Type)
}

func TestCreateWorkstream_UnknownType(t *testing.T) {
	app := setupTestApp(t)

	company := createCompany(t, app, "Acme")

	resp, _ := doJSON(t, app, http.MethodPost, "/workstreams/", web.CreateWorkstreamRequest{
		CompanyID: company.ID,
		Name:      "Weird",
		Type:      "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEntityAndFlowLifecycle(t *testing.T) {
	app := setupTestApp(t)

	company := createCompany(t, app, "Acme")
	ws := createWorkstream(t, app, company.ID)
	entity := createEntity(t, app, ws.ID)

	base := "/workstreams/" + ws.ID + "/entities/contact-driver/" + entity.ID + "/flows"

	// Create a draft flow.
	resp, body := doJSON(t, app, http.MethodPost, base, web.CreateFlowRequest{Name: "Refund journey"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var flow models.Flow
	require.NoError(t, json.Unmarshal(body, &flow))
	assert.Equal(t, models.FlowTypeDraft, flow.Type)

	// Save its graph.
	graph := `{
	  "nodes": [{"id": "entry-1", "type": "entry", "position": {"x": 150, "y": 100},
	             "data": {"label": "Start", "category": "start"}}],
	  "edges": []
	}`
	resp, _ = doRaw(t, app, http.MethodPut, base+"/"+flow.ID+"/graph", graph)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Promote it.
	resp, body = doJSON(t, app, http.MethodPost, base+"/"+flow.ID+"/set-current", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var promoted models.Flow
	require.NoError(t, json.Unmarshal(body, &promoted))
	assert.Equal(t, models.FlowTypeCurrent, promoted.Type)
	assert.Equal(t, "v 1", promoted.Version)

	// Duplicate yields a fresh draft.
	resp, body = doJSON(t, app, http.MethodPost, base+"/"+flow.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var copied models.Flow
	require.NoError(t, json.Unmarshal(body, &copied))
	assert.Equal(t, models.FlowTypeDraft, copied.Type)
	assert.Equal(t, "Refund journey (copy)", copied.Name)

	// Delete the current flow; the entity just has no current afterwards.
	resp, _ = doJSON(t, app, http.MethodDelete, base+"/"+flow.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestImportFlow(t *testing.T) {
	app := setupTestApp(t)

	company := createCompany(t, app, "Acme")
	ws := createWorkstream(t, app, company.ID)
	entity := createEntity(t, app, ws.ID)

	base := "/workstreams/" + ws.ID + "/entities/contact-driver/" + entity.ID + "/flows"

	payload := `{
	  "name": "Imported journey",
	  "graph": {
	    "nodes": [{"id": "entry-1", "type": "entry", "position": {"x": 150, "y": 100},
	               "data": {"label": "Start", "category": "start"}}],
	    "edges": []
	  }
	}`
	resp, body := doRaw(t, app, http.MethodPost, base+"/import", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var flow models.Flow
	require.NoError(t, json.Unmarshal(body, &flow))
	assert.Equal(t, models.FlowTypeDraft, flow.Type)
	assert.Equal(t, "Imported journey", flow.Name)
	require.NotNil(t, flow.Data)
	require.Len(t, flow.Data.Nodes, 1)
	assert.Equal(t, "entry-1", flow.Data.Nodes[0].ID)
}

func TestImportFlow_InvalidGraphCreatesNothing(t *testing.T) {
	app := setupTestApp(t)

	company := createCompany(t, app, "Acme")
	ws := createWorkstream(t, app, company.ID)
	entity := createEntity(t, app, ws.ID)

	base := "/workstreams/" + ws.ID + "/entities/contact-driver/" + entity.ID + "/flows"

	payload := `{
	  "name": "Broken import",
	  "graph": {"nodes": [], "edges": [{"id": "e1", "source": "ghost", "target": "ghost"}]}
	}`
	resp, _ := doRaw(t, app, http.MethodPost, base+"/import", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/workstreams/"+ws.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Workstream
	require.NoError(t, json.Unmarshal(body, &got))

	found, _ := got.FindEntity(entity.ID)
	require.NotNil(t, found)
	assert.Empty(t, found.Flows)
}

func TestSaveFlowGraph_InvalidPayload(t *testing.T) {
	app := setupTestApp(t)

	company := createCompany(t, app, "Acme")
	ws := createWorkstream(t, app, company.ID)
	entity := createEntity(t, app, ws.ID)

	base := "/workstreams/" + ws.ID + "/entities/contact-driver/" + entity.ID + "/flows"

	resp, body := doJSON(t, app, http.MethodPost, base, web.CreateFlowRequest{Name: "Journey"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var flow models.Flow
	require.NoError(t, json.Unmarshal(body, &flow))

	// Dangling edge is rejected before it reaches the store.
	bad := `{"nodes": [], "edges": [{"id": "e1", "source": "ghost", "target": "ghost"}]}`
	resp, _ = doRaw(t, app, http.MethodPut, base+"/"+flow.ID+"/graph", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFlowRoutes_NotFound(t *testing.T) {
	app := setupTestApp(t)

	company := createCompany(t, app, "Acme")
	ws := createWorkstream(t, app, company.ID)
	entity := createEntity(t, app, ws.ID)

	resp, _ := doJSON(t, app, http.MethodPost,
		"/workstreams/"+ws.ID+"/entities/contact-driver/"+entity.ID+"/flows/ghost/set-current", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteCompanyCascadesOverHTTP(t *testing.T) {
	app := setupTestApp(t)

	company := createCompany(t, app, "Acme")
	ws := createWorkstream(t, app, company.ID)

	resp, _ := doJSON(t, app, http.MethodDelete, "/companies/"+company.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/workstreams/"+ws.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Idempotent: deleting again still succeeds.
	resp, _ = doJSON(t, app, http.MethodDelete, "/companies/"+company.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateUser(t *testing.T) {
	app := setupTestApp(t)

	company := createCompany(t, app, "Acme")

	resp, body := doJSON(t, app, http.MethodPost, "/companies/"+company.ID+"/users", web.CreateUserRequest{
		Email: "ops@acme.test",
		Name:  "Ops",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = doJSON(t, app, http.MethodPost, "/companies/"+company.ID+"/users", web.CreateUserRequest{
		Email: "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "healthy", health["status"])
}

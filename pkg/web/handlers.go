package web

import (
	"net/http"
	"time"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/graphschema"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	companyService    *services.Company
	workstreamService *services.Workstream
	flowService       *services.Flow
	kbService         *services.KnowledgeBase
	validator         *validator.Validate
}

func NewAPIHandlers(
	companyService *services.Company,
	workstreamService *services.Workstream,
	flowService *services.Flow,
	kbService *services.KnowledgeBase,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		companyService:    companyService,
		workstreamService: workstreamService,
		flowService:       flowService,
		kbService:         kbService,
		validator:         validator,
	}
}

// -- Companies --

func (h *APIHandlers) GetCompanies(c fiber.Ctx) error {
	companies, err := h.companyService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"companies": companies})
}

func (h *APIHandlers) CreateCompany(c fiber.Ctx) error {
	var req CreateCompanyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	company, err := h.companyService.Create(c.Context(), req.Name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(company)
}

func (h *APIHandlers) GetCompany(c fiber.Ctx) error {
	company, err := h.companyService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(company)
}

func (h *APIHandlers) GetCompanyBySlug(c fiber.Ctx) error {
	company, err := h.companyService.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(company)
}

func (h *APIHandlers) RenameCompany(c fiber.Ctx) error {
	var req RenameCompanyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.companyService.Rename(c.Context(), c.Params("id"), req.Name); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) DeleteCompany(c fiber.Ctx) error {
	if err := h.companyService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetCompanyUsers(c fiber.Ctx) error {
	users, err := h.companyService.ListUsers(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"users": users})
}

func (h *APIHandlers) CreateCompanyUser(c fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.companyService.AddUser(c.Context(), &models.User{
		CompanyID: c.Params("id"),
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// -- Workstreams --

func (h *APIHandlers) GetWorkstreams(c fiber.Ctx) error {
	companyID := c.Query("company_id")
	if companyID == "" {
		return badRequest(c, "company_id query parameter is required")
	}

	workstreams, err := h.workstreamService.List(c.Context(), companyID, models.WorkstreamType(c.Query("type")))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"workstreams": workstreams})
}

func (h *APIHandlers) CreateWorkstream(c fiber.Ctx) error {
	var req CreateWorkstreamRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	companyID := req.CompanyID
	if companyID == "" {
		company, err := h.companyService.GetBySlug(c.Context(), req.CompanySlug)
		if err != nil {
			return handleServiceError(c, err)
		}

		companyID = company.ID
	}

	ws, err := h.workstreamService.Create(c.Context(), &models.Workstream{
		CompanyID:         companyID,
		Name:              req.Name,
		Description:       req.Description,
		Type:              models.WorkstreamType(req.Type),
		SuccessDefinition: req.SuccessDefinition,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(ws)
}

func (h *APIHandlers) GetWorkstream(c fiber.Ctx) error {
	ws, err := h.workstreamService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(ws)
}

func (h *APIHandlers) UpdateWorkstream(c fiber.Ctx) error {
	var req UpdateWorkstreamRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.workstreamService.Update(c.Context(), c.Params("id"), req); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) DeleteWorkstream(c fiber.Ctx) error {
	if err := h.workstreamService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// -- Sub-entities --

func (h *APIHandlers) CreateEntity(c fiber.Ctx) error {
	kind := models.SubEntityKind(c.Params("kind"))

	var req CreateEntityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	entity, err := h.workstreamService.AddEntity(c.Context(), c.Params("id"), kind, models.SubEntity{
		Name:           req.Name,
		Description:    req.Description,
		VolumePerMonth: req.VolumePerMonth,
		AvgHandleTime:  req.AvgHandleTime,
		CSAT:           req.CSAT,
		QAScore:        req.QAScore,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entity)
}

func (h *APIHandlers) UpdateEntity(c fiber.Ctx) error {
	var req UpdateEntityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err := h.workstreamService.UpdateEntity(c.Context(),
		c.Params("id"), models.SubEntityKind(c.Params("kind")), c.Params("entityId"), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) DeleteEntity(c fiber.Ctx) error {
	err := h.workstreamService.RemoveEntity(c.Context(),
		c.Params("id"), models.SubEntityKind(c.Params("kind")), c.Params("entityId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// -- Flows --

func (h *APIHandlers) CreateFlow(c fiber.Ctx) error {
	var req CreateFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	flow, err := h.flowService.Create(c.Context(),
		c.Params("id"), c.Params("entityId"), req.Name, req.Description)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(flow)
}

func (h *APIHandlers) UpdateFlow(c fiber.Ctx) error {
	var req UpdateFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err := h.flowService.UpdateMetadata(c.Context(),
		c.Params("id"), c.Params("entityId"), c.Params("flowId"), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) DuplicateFlow(c fiber.Ctx) error {
	flow, err := h.flowService.Duplicate(c.Context(),
		c.Params("id"), c.Params("entityId"), c.Params("flowId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(flow)
}

func (h *APIHandlers) SetFlowAsCurrent(c fiber.Ctx) error {
	flow, err := h.flowService.SetAsCurrent(c.Context(),
		c.Params("id"), c.Params("entityId"), c.Params("flowId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(flow)
}

func (h *APIHandlers) DeleteFlow(c fiber.Ctx) error {
	err := h.flowService.Delete(c.Context(),
		c.Params("id"), c.Params("entityId"), c.Params("flowId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SaveFlowGraph replaces a flow's canvas content. The payload is validated
// against the graph schema before it is accepted, since this endpoint also
// serves imports from outside the canvas.
func (h *APIHandlers) SaveFlowGraph(c fiber.Ctx) error {
	graph, err := graphschema.Validate(c.Body())
	if err != nil {
		return handleServiceError(c, err)
	}

	err = h.flowService.SaveGraph(c.Context(),
		c.Params("id"), c.Params("entityId"), c.Params("flowId"), graph)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ImportFlow creates a new draft flow from an externally produced graph
// document. The graph is validated before any flow is created, so a bad
// import leaves no empty draft behind.
func (h *APIHandlers) ImportFlow(c fiber.Ctx) error {
	var req ImportFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	graph, err := graphschema.Validate(req.Graph)
	if err != nil {
		return handleServiceError(c, err)
	}

	flow, err := h.flowService.Create(c.Context(),
		c.Params("id"), c.Params("entityId"), req.Name, req.Description)
	if err != nil {
		return handleServiceError(c, err)
	}

	err = h.flowService.SaveGraph(c.Context(),
		c.Params("id"), c.Params("entityId"), flow.ID, graph)
	if err != nil {
		return handleServiceError(c, err)
	}

	flow.Data = graph

	return c.Status(fiber.StatusCreated).JSON(flow)
}

// -- Knowledge base --

func (h *APIHandlers) GetCompanyAssets(c fiber.Ctx) error {
	assets, err := h.kbService.List(c.Context(),
		c.Params("id"), models.KnowledgeBaseAssetType(c.Query("type")))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"assets": assets})
}

func (h *APIHandlers) CreateCompanyAsset(c fiber.Ctx) error {
	var req CreateAssetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	asset, err := h.kbService.Create(c.Context(), &models.KnowledgeBaseAsset{
		CompanyID:  c.Params("id"),
		Name:       req.Name,
		Type:       models.KnowledgeBaseAssetType(req.Type),
		Content:    req.Content,
		IsInternal: req.IsInternal,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(asset)
}

func (h *APIHandlers) GetAsset(c fiber.Ctx) error {
	asset, err := h.kbService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(asset)
}

func (h *APIHandlers) UpdateAsset(c fiber.Ctx) error {
	var req UpdateAssetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.kbService.Update(c.Context(), c.Params("id"), req); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) DeleteAsset(c fiber.Ctx) error {
	if err := h.kbService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// -- Health --

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	storeCheck, ok := h.companyService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "CX console API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if ok {
		status = "healthy"
		message = "CX console API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"store": storeCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

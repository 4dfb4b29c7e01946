package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procurementapp "github.com/retailpos/backend/internal/application/procurement"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/infrastructure/printing"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// GRNHandler handles goods received note endpoints, including the
// confirmation that posts received quantities into branch inventory.
type GRNHandler struct {
	BaseHandler
	grnService          *procurementapp.GRNService
	confirmationService *procurementapp.GRNConfirmationService
	documentService     *printing.DocumentService
	grnRepo             procurement.GRNRepository
	tenantRepo          identity.TenantRepository
	branchRepo          partner.BranchRepository
}

func NewGRNHandler(
	grnService *procurementapp.GRNService,
	confirmationService *procurementapp.GRNConfirmationService,
	documentService *printing.DocumentService,
	grnRepo procurement.GRNRepository,
	tenantRepo identity.TenantRepository,
	branchRepo partner.BranchRepository,
) *GRNHandler {
	return &GRNHandler{
		grnService:          grnService,
		confirmationService: confirmationService,
		documentService:     documentService,
		grnRepo:             grnRepo,
		tenantRepo:          tenantRepo,
		branchRepo:          branchRepo,
	}
}

func (h *GRNHandler) pathGRNID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid GRN ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @Summary      Create goods received note
// @Description  Drafts a GRN against an issued purchase order with received quantities prefilled from the order lines
// @Tags         grns
// @Accept       json
// @Produce      json
// @Param        request body procurementapp.CreateGRNRequest true "New GRN"
// @Success      201 {object} dto.Response{data=procurementapp.GRNResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /grns [post]
func (h *GRNHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req procurementapp.CreateGRNRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.grnService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get goods received note
// @Tags         grns
// @Produce      json
// @Param        id path string true "GRN ID"
// @Success      200 {object} dto.Response{data=procurementapp.GRNResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /grns/{id} [get]
func (h *GRNHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	grnID, ok := h.pathGRNID(c)
	if !ok {
		return
	}

	result, err := h.grnService.GetByID(c.Request.Context(), tenantID, grnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List goods received notes
// @Tags         grns
// @Produce      json
// @Param        search query string false "Search by GRN or order number"
// @Param        branch_id query string false "Filter by branch"
// @Param        status query string false "DRAFT or CONFIRMED"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]procurementapp.GRNResponse}
// @Security     BearerAuth
// @Router       /grns [get]
func (h *GRNHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var filter procurementapp.GRNListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	grns, total, err := h.grnService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, grns, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update goods received note
// @Description  Corrects received quantities on a draft GRN before confirmation
// @Tags         grns
// @Accept       json
// @Produce      json
// @Param        id path string true "GRN ID"
// @Param        request body procurementapp.UpdateGRNRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=procurementapp.GRNResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /grns/{id} [put]
func (h *GRNHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	grnID, ok := h.pathGRNID(c)
	if !ok {
		return
	}

	var req procurementapp.UpdateGRNRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.grnService.Update(c.Request.Context(), tenantID, grnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Confirm godoc
// @Summary      Confirm goods received note
// @Description  Posts the received quantities into branch inventory and writes one audit record per line. Confirmation is final.
// @Tags         grns
// @Produce      json
// @Param        id path string true "GRN ID"
// @Success      200 {object} dto.Response{data=procurementapp.ConfirmGRNResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /grns/{id}/confirm [post]
func (h *GRNHandler) Confirm(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	grnID, ok := h.pathGRNID(c)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result := h.confirmationService.ConfirmGRN(c.Request.Context(), tenantID, grnID, actor)
	if !result.Success {
		status, code := confirmFailureStatus(result.Code)
		h.ErrorWithDetails(c, status, code, result.Message, result.Errors)
		return
	}

	h.Success(c, result)
}

// confirmFailureStatus maps a confirmation failure code to the HTTP
// status and envelope error code for the response.
func confirmFailureStatus(code string) (int, string) {
	switch code {
	case procurementapp.CodeNotFound:
		return http.StatusNotFound, dto.ErrCodeNotFound
	case procurementapp.CodeAlreadyProcessed:
		return http.StatusConflict, dto.ErrCodeAlreadyProcessed
	case procurementapp.CodeUnauthenticated:
		return http.StatusUnauthorized, dto.ErrCodeUnauthorized
	case procurementapp.CodeNoReceivedItems:
		return http.StatusUnprocessableEntity, dto.ErrCodeBusinessRule
	case procurementapp.CodeInventoryUpdateFailed:
		return http.StatusInternalServerError, dto.ErrCodeInternal
	default:
		return http.StatusInternalServerError, dto.ErrCodeInternal
	}
}

// Document godoc
// @Summary      Download GRN document
// @Description  Renders the GRN as an A4 PDF, or HTML when no renderer is configured
// @Tags         grns
// @Produce      application/pdf
// @Param        id path string true "GRN ID"
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /grns/{id}/document [get]
func (h *GRNHandler) Document(c *gin.Context) {
	if h.documentService == nil {
		h.NotFound(c, "Document rendering is not available")
		return
	}

	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	grnID, ok := h.pathGRNID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	grn, err := h.grnRepo.FindByIDForTenant(ctx, tenantID, grnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	tenantName := ""
	if tenant, err := h.tenantRepo.FindByID(ctx, tenantID); err == nil {
		tenantName = tenant.Name
	}
	branchName := ""
	if branch, err := h.branchRepo.FindByIDForTenant(ctx, tenantID, grn.BranchID); err == nil {
		branchName = branch.Name
	}

	doc, err := h.documentService.RenderGRNDocument(ctx, grn, tenantName, branchName)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// Delete godoc
// @Summary      Delete goods received note
// @Description  Only draft GRNs can be deleted
// @Tags         grns
// @Param        id path string true "GRN ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /grns/{id} [delete]
func (h *GRNHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	grnID, ok := h.pathGRNID(c)
	if !ok {
		return
	}

	if err := h.grnService.Delete(c.Request.Context(), tenantID, grnID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

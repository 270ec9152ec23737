package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	royaltyapp "github.com/inkhouse/backend/internal/application/royalty"
	"github.com/inkhouse/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RoyaltyHandler serves the royalty statement endpoints
type RoyaltyHandler struct {
	BaseHandler
	batch             *royaltyapp.BatchRunService
	delivery          *royaltyapp.DeliveryService
	query             *royaltyapp.StatementQueryService
	presignExpiration time.Duration
	logger            *zap.Logger
}

// NewRoyaltyHandler creates a new RoyaltyHandler
func NewRoyaltyHandler(
	batch *royaltyapp.BatchRunService,
	delivery *royaltyapp.DeliveryService,
	query *royaltyapp.StatementQueryService,
	presignExpiration time.Duration,
	logger *zap.Logger,
) *RoyaltyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoyaltyHandler{
		batch:             batch,
		delivery:          delivery,
		query:             query,
		presignExpiration: presignExpiration,
		logger:            logger,
	}
}

// RegisterRoutes registers the royalty routes on the API group
func (h *RoyaltyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	royalty := rg.Group("/royalty")
	{
		royalty.POST("/runs", h.RunBatch)
		royalty.GET("/statements/:id", h.GetStatement)
		royalty.GET("/statements/:id/download", h.DownloadStatement)
		royalty.POST("/statements/:id/resend", h.ResendStatement)
	}
}

// RunBatch handles POST /api/v1/royalty/runs
// The run is synchronous: the response is the full per-author report.
func (h *RoyaltyHandler) RunBatch(c *gin.Context) {
	var req dto.RunBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not resolved")
		return
	}

	authorIDs := make([]uuid.UUID, 0, len(req.AuthorIDs))
	for _, raw := range req.AuthorIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid author id: "+raw)
			return
		}
		authorIDs = append(authorIDs, id)
	}

	report, err := h.batch.RunBatch(c.Request.Context(), royaltyapp.BatchRequest{
		TenantID:    tenantID,
		ActorID:     userID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		AuthorIDs:   authorIDs,
		SendEmail:   req.SendEmail,
	})
	if err != nil {
		h.logger.Error("batch run failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewBatchReportResponse(report))
}

// GetStatement handles GET /api/v1/royalty/statements/:id
func (h *RoyaltyHandler) GetStatement(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid statement id")
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not resolved")
		return
	}

	statement, err := h.query.GetStatement(c.Request.Context(), tenantID, userID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewStatementResponse(statement))
}

// DownloadStatement handles GET /api/v1/royalty/statements/:id/download
func (h *RoyaltyHandler) DownloadStatement(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid statement id")
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not resolved")
		return
	}

	url, err := h.query.DownloadURL(c.Request.Context(), tenantID, userID, uuid.MustParse(idReq.ID), h.presignExpiration)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.DownloadResponse{
		URL:       url,
		ExpiresAt: time.Now().Add(h.presignExpiration),
	})
}

// ResendStatement handles POST /api/v1/royalty/statements/:id/resend
// A resend re-delivers the original artifact; it never changes the
// statement's first-delivery timestamp.
func (h *RoyaltyHandler) ResendStatement(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid statement id")
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not resolved")
		return
	}

	statementID := uuid.MustParse(idReq.ID)
	messageID, err := h.delivery.ResendStatement(c.Request.Context(), tenantID, userID, statementID)
	if err != nil {
		h.logger.Warn("statement resend failed",
			zap.String("statement_id", statementID.String()),
			zap.Error(err),
		)
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ResendResponse{
		StatementID: statementID.String(),
		MessageID:   messageID,
	})
}

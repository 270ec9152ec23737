package dto

import (
	"time"

	royaltyapp "github.com/inkhouse/backend/internal/application/royalty"
	"github.com/inkhouse/backend/internal/domain/royalty"
)

// RunBatchRequest is the request body for starting a statement batch run
type RunBatchRequest struct {
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
	// AuthorIDs limits the run to the listed authors. Empty means every
	// author holding an active contract.
	AuthorIDs []string `json:"author_ids" binding:"omitempty,dive,uuid"`
	SendEmail bool     `json:"send_email"`
}

// BatchReportResponse is the outcome of a batch run
type BatchReportResponse struct {
	Results     []royaltyapp.AuthorResult `json:"results"`
	Requested   int                       `json:"requested"`
	Succeeded   int                       `json:"succeeded"`
	Failed      int                       `json:"failed"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// NewBatchReportResponse converts an application batch report
func NewBatchReportResponse(report *royaltyapp.BatchReport) BatchReportResponse {
	succeeded := 0
	for _, r := range report.Results {
		if r.Success {
			succeeded++
		}
	}
	return BatchReportResponse{
		Results:     report.Results,
		Requested:   len(report.Results),
		Succeeded:   succeeded,
		Failed:      len(report.Results) - succeeded,
		GeneratedAt: report.GeneratedAt,
	}
}

// StatementResponse is the API shape of a royalty statement
type StatementResponse struct {
	ID                 string                       `json:"id"`
	ContractID         string                       `json:"contract_id"`
	AuthorID           string                       `json:"author_id"`
	PeriodStart        time.Time                    `json:"period_start"`
	PeriodEnd          time.Time                    `json:"period_end"`
	TotalRoyaltyEarned string                       `json:"total_royalty_earned"`
	Recoupment         string                       `json:"recoupment"`
	NetPayable         string                       `json:"net_payable"`
	Calculation        royalty.StatementCalculation `json:"calculation"`
	Status             string                       `json:"status"`
	HasArtifact        bool                         `json:"has_artifact"`
	EmailSentAt        *time.Time                   `json:"email_sent_at,omitempty"`
	CreatedAt          time.Time                    `json:"created_at"`
	UpdatedAt          time.Time                    `json:"updated_at"`
}

// NewStatementResponse converts a domain statement
func NewStatementResponse(s *royalty.Statement) StatementResponse {
	return StatementResponse{
		ID:                 s.GetID().String(),
		ContractID:         s.ContractID.String(),
		AuthorID:           s.AuthorID.String(),
		PeriodStart:        s.PeriodStart,
		PeriodEnd:          s.PeriodEnd,
		TotalRoyaltyEarned: s.TotalRoyaltyEarned.StringFixed(2),
		Recoupment:         s.Recoupment.StringFixed(2),
		NetPayable:         s.NetPayable.StringFixed(2),
		Calculation:        s.Calculation,
		Status:             s.Status.String(),
		HasArtifact:        s.HasArtifact(),
		EmailSentAt:        s.EmailSentAt,
		CreatedAt:          s.GetCreatedAt(),
		UpdatedAt:          s.GetUpdatedAt(),
	}
}

// ResendResponse is the outcome of a manual statement resend
type ResendResponse struct {
	StatementID string `json:"statement_id"`
	MessageID   string `json:"message_id"`
}

// DownloadResponse carries a time-limited artifact download URL
type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

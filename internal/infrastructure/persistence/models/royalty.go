package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
	"github.com/shopspring/decimal"
)

// ContractModel is the persistence model for the Contract aggregate root.
type ContractModel struct {
	TenantAggregateModel
	AuthorID        uuid.UUID              `gorm:"type:uuid;not null;index:idx_contract_tenant_author"`
	TitleID         uuid.UUID              `gorm:"type:uuid;not null;index"`
	Status          royalty.ContractStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	AdvanceAmount   decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	AdvanceRecouped decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract entity.
func (m *ContractModel) ToDomain() *royalty.Contract {
	c := &royalty.Contract{
		AuthorID:        m.AuthorID,
		TitleID:         m.TitleID,
		Status:          m.Status,
		AdvanceAmount:   m.AdvanceAmount,
		AdvanceRecouped: m.AdvanceRecouped,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Contract entity.
func (m *ContractModel) FromDomain(c *royalty.Contract) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.AuthorID = c.AuthorID
	m.TitleID = c.TitleID
	m.Status = c.Status
	m.AdvanceAmount = c.AdvanceAmount
	m.AdvanceRecouped = c.AdvanceRecouped
}

// ContractModelFromDomain creates a new persistence model from a domain Contract.
func ContractModelFromDomain(c *royalty.Contract) *ContractModel {
	m := &ContractModel{}
	m.FromDomain(c)
	return m
}

// RateTierModel is the persistence model for one rate schedule tier.
// Tiers are plain configuration rows, not aggregates; they carry no version.
type RateTierModel struct {
	BaseModel
	TenantID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	ContractID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_rate_tier_contract_format"`
	Format      royalty.Format `gorm:"type:varchar(20);not null;index:idx_rate_tier_contract_format"`
	MinQuantity int64          `gorm:"not null"`
	MaxQuantity *int64
	Rate        decimal.Decimal `gorm:"type:decimal(8,6);not null"`
}

// TableName returns the table name for GORM
func (RateTierModel) TableName() string {
	return "rate_tiers"
}

// ToDomain converts the persistence model to a domain RateTier.
func (m *RateTierModel) ToDomain() royalty.RateTier {
	return royalty.RateTier{
		ID:          m.ID,
		ContractID:  m.ContractID,
		Format:      m.Format,
		MinQuantity: m.MinQuantity,
		MaxQuantity: m.MaxQuantity,
		Rate:        m.Rate,
	}
}

// SaleModel is the persistence model for one immutable sale record.
type SaleModel struct {
	BaseModel
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_sale_lookup,priority:1"`
	TitleID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_sale_lookup,priority:2"`
	Format     royalty.Format  `gorm:"type:varchar(20);not null;index:idx_sale_lookup,priority:3"`
	Quantity   int64           `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OccurredAt time.Time       `gorm:"not null;index:idx_sale_lookup,priority:4"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sale_records"
}

// ToDomain converts the persistence model to a domain SaleRecord.
func (m *SaleModel) ToDomain() royalty.SaleRecord {
	return royalty.SaleRecord{
		ID:         m.ID,
		TenantID:   m.TenantID,
		TitleID:    m.TitleID,
		Format:     m.Format,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		OccurredAt: m.OccurredAt,
	}
}

// ReturnModel is the persistence model for one immutable return record.
type ReturnModel struct {
	BaseModel
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_return_lookup,priority:1"`
	TitleID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_return_lookup,priority:2"`
	SaleID     *uuid.UUID      `gorm:"type:uuid;index"`
	Format     royalty.Format  `gorm:"type:varchar(20);not null;index:idx_return_lookup,priority:3"`
	Quantity   int64           `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OccurredAt time.Time       `gorm:"not null;index:idx_return_lookup,priority:4"`
}

// TableName returns the table name for GORM
func (ReturnModel) TableName() string {
	return "return_records"
}

// ToDomain converts the persistence model to a domain ReturnRecord.
func (m *ReturnModel) ToDomain() royalty.ReturnRecord {
	return royalty.ReturnRecord{
		ID:         m.ID,
		TenantID:   m.TenantID,
		TitleID:    m.TitleID,
		SaleID:     m.SaleID,
		Format:     m.Format,
		Quantity:   m.Quantity,
		Amount:     m.Amount,
		OccurredAt: m.OccurredAt,
	}
}

// AuthorModel is the persistence model for the author read model.
type AuthorModel struct {
	TenantAggregateModel
	Name  string `gorm:"type:varchar(200);not null"`
	Email string `gorm:"type:varchar(254)"`
}

// TableName returns the table name for GORM
func (AuthorModel) TableName() string {
	return "authors"
}

// ToDomain converts the persistence model to a domain Author.
func (m *AuthorModel) ToDomain() *royalty.Author {
	a := &royalty.Author{
		Name:  m.Name,
		Email: m.Email,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// StatementModel is the persistence model for the Statement aggregate root.
// The unique index over (tenant, contract, period) is the database-level
// duplicate-run guard.
type StatementModel struct {
	TenantAggregateModel
	ContractID         uuid.UUID                    `gorm:"type:uuid;not null;uniqueIndex:idx_statement_contract_period,priority:2"`
	AuthorID           uuid.UUID                    `gorm:"type:uuid;not null;index"`
	PeriodStart        time.Time                    `gorm:"not null;uniqueIndex:idx_statement_contract_period,priority:3"`
	PeriodEnd          time.Time                    `gorm:"not null;uniqueIndex:idx_statement_contract_period,priority:4"`
	TotalRoyaltyEarned decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	Recoupment         decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	NetPayable         decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	Calculation        royalty.StatementCalculation `gorm:"type:jsonb;not null"`
	ArtifactKey        *string                      `gorm:"type:varchar(300)"`
	Status             royalty.StatementStatus      `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	EmailSentAt        *time.Time
}

// TableName returns the table name for GORM
func (StatementModel) TableName() string {
	return "royalty_statements"
}

// ToDomain converts the persistence model to a domain Statement entity.
func (m *StatementModel) ToDomain() *royalty.Statement {
	s := &royalty.Statement{
		ContractID:         m.ContractID,
		AuthorID:           m.AuthorID,
		PeriodStart:        m.PeriodStart,
		PeriodEnd:          m.PeriodEnd,
		TotalRoyaltyEarned: m.TotalRoyaltyEarned,
		Recoupment:         m.Recoupment,
		NetPayable:         m.NetPayable,
		Calculation:        m.Calculation,
		ArtifactKey:        m.ArtifactKey,
		Status:             m.Status,
		EmailSentAt:        m.EmailSentAt,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Statement entity.
func (m *StatementModel) FromDomain(s *royalty.Statement) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.ContractID = s.ContractID
	m.AuthorID = s.AuthorID
	m.PeriodStart = s.PeriodStart
	m.PeriodEnd = s.PeriodEnd
	m.TotalRoyaltyEarned = s.TotalRoyaltyEarned
	m.Recoupment = s.Recoupment
	m.NetPayable = s.NetPayable
	m.Calculation = s.Calculation
	m.ArtifactKey = s.ArtifactKey
	m.Status = s.Status
	m.EmailSentAt = s.EmailSentAt
}

// StatementModelFromDomain creates a new persistence model from a domain Statement.
func StatementModelFromDomain(s *royalty.Statement) *StatementModel {
	m := &StatementModel{}
	m.FromDomain(s)
	return m
}

// AllModels lists every model for schema migration.
func AllModels() []interface{} {
	return []interface{}{
		&ContractModel{},
		&RateTierModel{},
		&SaleModel{},
		&ReturnModel{},
		&AuthorModel{},
		&StatementModel{},
	}
}

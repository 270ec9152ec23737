package royalty

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
	"github.com/inkhouse/backend/internal/domain/shared"
	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// AuthorStage is the per-author pipeline state. Terminal stages are
// delivered, deliveryFailed, deliverySkipped, cancelled and failed.
type AuthorStage string

const (
	StagePending           AuthorStage = "pending"
	StageCalculated        AuthorStage = "calculated"
	StagePersisted         AuthorStage = "persisted"
	StageArtifactGenerated AuthorStage = "artifactGenerated"
	StageDelivered         AuthorStage = "delivered"
	StageDeliveryFailed    AuthorStage = "deliveryFailed"
	StageDeliverySkipped   AuthorStage = "deliverySkipped"
	StageCancelled         AuthorStage = "cancelled"
	StageFailed            AuthorStage = "failed"
)

// Report error codes produced by the orchestrator itself
const (
	codeCancelled    = "CANCELLED"
	codeStageTimeout = "STAGE_TIMEOUT"
	codeArtifact     = "ARTIFACT_FAILED"
)

// BatchRequest describes one batch run: the tenant, the statement period,
// the authors to process (empty means all authors holding an active
// contract), and whether statements are emailed after generation.
type BatchRequest struct {
	TenantID    uuid.UUID
	ActorID     uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	AuthorIDs   []uuid.UUID
	SendEmail   bool
}

// AuthorResult is the outcome for one requested author. Every requested
// author appears in the report exactly once; StatementID is set whenever the
// author progressed through persistence, even if delivery later failed.
type AuthorResult struct {
	AuthorID    uuid.UUID   `json:"author_id"`
	Success     bool        `json:"success"`
	StatementID *uuid.UUID  `json:"statement_id,omitempty"`
	Stage       AuthorStage `json:"stage"`
	ErrorCode   string      `json:"error_code,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// BatchReport is the aggregate outcome of one batch run, sorted by author id
// for deterministic output.
type BatchReport struct {
	Results     []AuthorResult `json:"results"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// BatchConfig tunes the orchestrator's worker pool and stage budget
type BatchConfig struct {
	// MaxConcurrentWorkers bounds the number of authors processed in parallel
	MaxConcurrentWorkers int
	// StageTimeout is the wall-clock budget of a single pipeline stage;
	// exceeding it fails the author, not the batch
	StageTimeout time.Duration
}

// DefaultBatchConfig returns default orchestrator configuration
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxConcurrentWorkers: 4,
		StageTimeout:         2 * time.Minute,
	}
}

// Validate checks the configuration for usable values
func (c BatchConfig) Validate() error {
	if c.MaxConcurrentWorkers <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "max concurrent workers must be positive")
	}
	if c.StageTimeout <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "stage timeout must be positive")
	}
	return nil
}

// BatchRunService orchestrates bulk statement generation: it resolves
// eligible authors, fans each one out across a bounded worker pool, runs the
// aggregate → calculate → persist → render → deliver pipeline end-to-end
// inside one worker task, and collects a per-author outcome without letting
// one author's failure abort its siblings. Only infrastructure faults (a
// repository that cannot be reached at all) abort the whole batch.
type BatchRunService struct {
	contracts  royalty.ContractRepository
	tiers      royalty.RateTierRepository
	sales      royalty.SalesRepository
	authors    royalty.AuthorRepository
	statements royalty.StatementRepository
	storage    ObjectStorage
	renderer   StatementRenderer
	delivery   *DeliveryService
	gate       PermissionGate
	calculator *royalty.Calculator
	currency   valueobject.Currency
	cfg        BatchConfig
	logger     *zap.Logger

	// contractLocks serializes advance recoupment per contract so two
	// concurrent statements can never recoup against the same baseline.
	// Keyed by contract id; unrelated authors stay fully parallel.
	contractLocks sync.Map
}

// BatchRunServiceOption is a functional option for configuring BatchRunService
type BatchRunServiceOption func(*BatchRunService)

// WithBatchLogger sets the service logger
func WithBatchLogger(logger *zap.Logger) BatchRunServiceOption {
	return func(s *BatchRunService) {
		s.logger = logger
	}
}

// WithCurrency sets the tenant-configured statement currency
func WithCurrency(currency valueobject.Currency) BatchRunServiceOption {
	return func(s *BatchRunService) {
		s.currency = currency
	}
}

// NewBatchRunService creates a new BatchRunService
func NewBatchRunService(
	contracts royalty.ContractRepository,
	tiers royalty.RateTierRepository,
	sales royalty.SalesRepository,
	authors royalty.AuthorRepository,
	statements royalty.StatementRepository,
	storage ObjectStorage,
	renderer StatementRenderer,
	delivery *DeliveryService,
	gate PermissionGate,
	cfg BatchConfig,
	opts ...BatchRunServiceOption,
) (*BatchRunService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &BatchRunService{
		contracts:  contracts,
		tiers:      tiers,
		sales:      sales,
		authors:    authors,
		statements: statements,
		storage:    storage,
		renderer:   renderer,
		delivery:   delivery,
		gate:       gate,
		calculator: royalty.NewCalculator(),
		currency:   valueobject.DefaultCurrency,
		cfg:        cfg,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RunBatch executes one batch run and returns the per-author report. The
// report enumerates every requested author with an explicit outcome; the
// batch always completes unless the permission gate denies it or an
// infrastructure fault makes author-level progress untrustworthy.
func (s *BatchRunService) RunBatch(ctx context.Context, req BatchRequest) (*BatchReport, error) {
	period, err := valueobject.NewPeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	allowed, err := s.gate.Allow(ctx, req.TenantID, req.ActorID, PermissionRunBatch)
	if err != nil {
		return nil, fmt.Errorf("permission check failed: %w", err)
	}
	if !allowed {
		return nil, shared.ErrUnauthorized
	}

	authorIDs := req.AuthorIDs
	if len(authorIDs) == 0 {
		authorIDs, err = s.contracts.FindActiveAuthorIDs(ctx, req.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve eligible authors: %w", err)
		}
	}

	s.logger.Info("Starting royalty batch run",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("period", period.String()),
		zap.Int("authors", len(authorIDs)),
		zap.Bool("send_email", req.SendEmail),
	)

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		fatalOnce sync.Once
		fatalErr  error
	)
	abort := func(err error) {
		fatalOnce.Do(func() {
			fatalErr = err
			cancel()
		})
	}

	jobs := make(chan uuid.UUID)
	results := make(chan AuthorResult, len(authorIDs))

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.MaxConcurrentWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for authorID := range jobs {
				result, infraErr := s.processAuthor(batchCtx, req, period, authorID)
				if infraErr != nil {
					abort(infraErr)
				}
				results <- result
			}
		}()
	}

	for _, authorID := range authorIDs {
		jobs <- authorID
	}
	close(jobs)
	wg.Wait()
	close(results)

	if fatalErr != nil {
		return nil, fmt.Errorf("batch aborted: %w", fatalErr)
	}

	report := &BatchReport{
		Results:     make([]AuthorResult, 0, len(authorIDs)),
		GeneratedAt: time.Now(),
	}
	for result := range results {
		report.Results = append(report.Results, result)
	}
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].AuthorID.String() < report.Results[j].AuthorID.String()
	})

	s.logger.Info("Royalty batch run finished",
		zap.String("tenant_id", req.TenantID.String()),
		zap.Int("results", len(report.Results)),
	)
	return report, nil
}

// processAuthor runs the whole pipeline for one author. The returned error is
// non-nil only for infrastructure faults that must abort the batch; every
// author-level outcome, including failure, is expressed in the AuthorResult.
func (s *BatchRunService) processAuthor(ctx context.Context, req BatchRequest, period valueobject.Period, authorID uuid.UUID) (AuthorResult, error) {
	if ctx.Err() != nil {
		return AuthorResult{AuthorID: authorID, Stage: StageCancelled, ErrorCode: codeCancelled, Error: "batch cancelled before processing started"}, nil
	}

	// Stage 1: load contract, author and rate tiers.
	contract, author, tierSet, err := s.loadAuthorInputs(ctx, req.TenantID, authorID)
	if err != nil {
		return s.authorFailure(authorID, StagePending, nil, err)
	}

	// Stage 2: re-run guard. A statement for this contract and period, in any
	// status, blocks regeneration; corrections need an explicit path.
	if err := s.checkDuplicate(ctx, req.TenantID, contract, period); err != nil {
		return s.authorFailure(authorID, StagePending, nil, err)
	}

	if ctx.Err() != nil {
		return AuthorResult{AuthorID: authorID, Stage: StagePending, ErrorCode: codeCancelled, Error: "batch cancelled"}, nil
	}

	// Stage 3: aggregate and calculate per format, then roll up with advance
	// recoupment and persist. The recoupment read/write is serialized per
	// contract.
	statement, err := s.calculateAndPersist(ctx, req.TenantID, contract, tierSet, period)
	if err != nil {
		return s.authorFailure(authorID, StageCalculated, nil, err)
	}
	statementID := statement.GetID()

	if ctx.Err() != nil {
		return AuthorResult{AuthorID: authorID, StatementID: &statementID, Stage: StagePersisted, ErrorCode: codeCancelled, Error: "batch cancelled"}, nil
	}

	// Stage 4: render the document, store it, finalize the statement.
	if err := s.generateArtifact(ctx, statement, author); err != nil {
		return s.authorFailure(authorID, StagePersisted, &statementID, err)
	}

	// Stage 5: delivery, if requested.
	if !req.SendEmail {
		s.logger.Debug("Delivery skipped", zap.String("statement_id", statementID.String()))
		return AuthorResult{AuthorID: authorID, Success: true, StatementID: &statementID, Stage: StageDeliverySkipped}, nil
	}
	if ctx.Err() != nil {
		return AuthorResult{AuthorID: authorID, StatementID: &statementID, Stage: StageArtifactGenerated, ErrorCode: codeCancelled, Error: "batch cancelled"}, nil
	}

	stageCtx, cancel := context.WithTimeout(ctx, s.cfg.StageTimeout)
	defer cancel()
	if _, err := s.delivery.Deliver(stageCtx, statement, author, false); err != nil {
		code, authorLevel := classifyError(err)
		if !authorLevel {
			return AuthorResult{AuthorID: authorID, StatementID: &statementID, Stage: StageDeliveryFailed}, err
		}
		return AuthorResult{
			AuthorID:    authorID,
			Success:     false,
			StatementID: &statementID,
			Stage:       StageDeliveryFailed,
			ErrorCode:   code,
			Error:       err.Error(),
		}, nil
	}

	return AuthorResult{AuthorID: authorID, Success: true, StatementID: &statementID, Stage: StageDelivered}, nil
}

// loadAuthorInputs resolves the author's active contract, contact record and
// configured rate tiers within one stage budget.
func (s *BatchRunService) loadAuthorInputs(ctx context.Context, tenantID, authorID uuid.UUID) (*royalty.Contract, *royalty.Author, []royalty.RateTier, error) {
	stageCtx, cancel := context.WithTimeout(ctx, s.cfg.StageTimeout)
	defer cancel()

	contract, err := s.contracts.FindActiveByAuthor(stageCtx, tenantID, authorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, nil, &royalty.CalculationError{AuthorID: authorID, Reason: "no active contract for author in tenant"}
		}
		return nil, nil, nil, err
	}
	author, err := s.authors.FindByIDForTenant(stageCtx, tenantID, authorID)
	if err != nil {
		return nil, nil, nil, err
	}
	tierSet, err := s.tiers.FindByContract(stageCtx, tenantID, contract.GetID())
	if err != nil {
		return nil, nil, nil, err
	}
	return contract, author, tierSet, nil
}

// checkDuplicate rejects re-runs for a contract/period that already has a
// statement in any status: a draft has already applied its recoupment at
// insert time, so regenerating it would recoup the advance twice.
func (s *BatchRunService) checkDuplicate(ctx context.Context, tenantID uuid.UUID, contract *royalty.Contract, period valueobject.Period) error {
	stageCtx, cancel := context.WithTimeout(ctx, s.cfg.StageTimeout)
	defer cancel()

	if _, err := s.statements.FindByContractAndPeriod(stageCtx, tenantID, contract.GetID(), period); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	return &royalty.DuplicateStatementError{
		ContractID:  contract.GetID(),
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
	}
}

// calculateAndPersist aggregates net sales per format, builds the calculation
// value tree bottom-up from tiers to statement, then persists the statement
// and advances the contract's recouped amount inside the per-contract
// critical section so concurrent runs never observe the same recoupment
// baseline.
func (s *BatchRunService) calculateAndPersist(ctx context.Context, tenantID uuid.UUID, contract *royalty.Contract, tierSet []royalty.RateTier, period valueobject.Period) (*royalty.Statement, error) {
	stageCtx, cancel := context.WithTimeout(ctx, s.cfg.StageTimeout)
	defer cancel()

	formats := royalty.Formats(tierSet)
	if len(formats) == 0 {
		return nil, &royalty.ScheduleError{ContractID: contract.GetID(), Reason: "contract has no rate tiers for any format"}
	}

	breakdowns := make([]royalty.FormatBreakdown, 0, len(formats))
	for _, format := range formats {
		schedule, err := royalty.ResolveSchedule(contract.GetID(), format, tierSet)
		if err != nil {
			return nil, err
		}
		saleRecords, err := s.sales.FindSales(stageCtx, tenantID, contract.TitleID, format, period)
		if err != nil {
			return nil, err
		}
		returnRecords, err := s.sales.FindReturns(stageCtx, tenantID, contract.TitleID, format, period)
		if err != nil {
			return nil, err
		}
		net := royalty.AggregateNetSales(format, period, saleRecords, returnRecords)
		breakdown, err := s.calculator.BuildFormatBreakdown(contract, net, schedule)
		if err != nil {
			return nil, err
		}
		breakdowns = append(breakdowns, breakdown)
	}

	lock := s.lockContract(contract.GetID())
	lock.Lock()
	defer lock.Unlock()

	calc, err := s.calculator.BuildStatement(contract, period, s.currency, breakdowns)
	if err != nil {
		return nil, err
	}

	statement := royalty.NewStatement(tenantID, contract, calc)
	if err := s.statements.Insert(stageCtx, statement); err != nil {
		return nil, err
	}

	if err := contract.ApplyRecoupment(calc.AdvanceRecoupment.ThisPeriodRecoupment); err != nil {
		return nil, err
	}
	if err := s.contracts.UpdateAdvance(stageCtx, contract); err != nil {
		return nil, err
	}
	return statement, nil
}

// generateArtifact renders the statement document, uploads it under the
// statement key convention and finalizes the statement.
func (s *BatchRunService) generateArtifact(ctx context.Context, statement *royalty.Statement, author *royalty.Author) error {
	stageCtx, cancel := context.WithTimeout(ctx, s.cfg.StageTimeout)
	defer cancel()

	document, err := s.renderer.Render(statement, author)
	if err != nil {
		return shared.NewDomainError(codeArtifact, fmt.Sprintf("failed to render statement document: %v", err))
	}

	key := royalty.ArtifactKeyFor(statement.TenantID, statement.GetID())
	if err := s.storage.Upload(stageCtx, key, document, "application/pdf"); err != nil {
		return shared.NewDomainError(codeArtifact, fmt.Sprintf("failed to store statement document: %v", err))
	}

	if err := statement.AttachArtifact(key); err != nil {
		return err
	}
	if err := statement.Finalize(); err != nil {
		return err
	}
	return s.statements.Update(stageCtx, statement)
}

// authorFailure converts a pipeline error into the author's report entry, or
// escalates it when it is an infrastructure fault.
func (s *BatchRunService) authorFailure(authorID uuid.UUID, stage AuthorStage, statementID *uuid.UUID, err error) (AuthorResult, error) {
	code, authorLevel := classifyError(err)
	if !authorLevel {
		return AuthorResult{AuthorID: authorID, Stage: stage}, err
	}
	s.logger.Warn("Author failed in batch run",
		zap.String("author_id", authorID.String()),
		zap.String("stage", string(stage)),
		zap.String("code", code),
		zap.Error(err),
	)
	return AuthorResult{
		AuthorID:    authorID,
		Success:     false,
		StatementID: statementID,
		Stage:       StageFailed,
		ErrorCode:   code,
		Error:       err.Error(),
	}, nil
}

// classifyError maps an error to a stable report code and decides whether it
// stays at author level. Anything outside the domain taxonomy, a stage
// timeout or a cancellation is an infrastructure fault that aborts the batch.
func classifyError(err error) (code string, authorLevel bool) {
	if code := royalty.ErrorCode(err); code != "" {
		return code, true
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return codeStageTimeout, true
	}
	if errors.Is(err, context.Canceled) {
		return codeCancelled, true
	}
	return "", false
}

// lockContract returns the mutex serializing recoupment for one contract
func (s *BatchRunService) lockContract(contractID uuid.UUID) *sync.Mutex {
	lock, _ := s.contractLocks.LoadOrStore(contractID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

package importapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/partsdepot/backend/internal/domain/shared"
	csvimport "github.com/partsdepot/backend/internal/infrastructure/import"
)

// errDryRunRollback is returned from the transaction callback on a dry run so
// the store rolls back; the service treats it as success.
var errDryRunRollback = errors.New("dry run rollback")

const (
	defaultPreviewRows = 20
	defaultMaxRows     = 50000
	defaultMaxErrors   = 100
)

// CatalogImportService drives the import pipeline: preview parses a sample
// and proposes a column mapping, commit reconciles every row against the
// catalog inside one transaction.
type CatalogImportService struct {
	scope    TransactionScope
	sessions csvimport.SessionStore
	mapper   *csvimport.HeaderMapper
	logger   *zap.Logger

	previewRows int
	maxRows     int
	maxErrors   int

	defaultTVA       *decimal.Decimal
	fallbackCategory string
}

// ServiceOption configures a CatalogImportService
type ServiceOption func(*CatalogImportService)

// WithPreviewRows caps how many sample rows a preview returns
func WithPreviewRows(n int) ServiceOption {
	return func(s *CatalogImportService) {
		if n > 0 {
			s.previewRows = n
		}
	}
}

// WithMaxRows caps how many data rows a commit will process
func WithMaxRows(n int) ServiceOption {
	return func(s *CatalogImportService) {
		if n > 0 {
			s.maxRows = n
		}
	}
}

// WithMaxErrors caps how many row diagnostics are retained per batch
func WithMaxErrors(n int) ServiceOption {
	return func(s *CatalogImportService) {
		if n > 0 {
			s.maxErrors = n
		}
	}
}

// WithTVARateDefault sets the VAT rate applied to created parts whose row
// carries none. A commit can still override it per batch.
func WithTVARateDefault(rate string) ServiceOption {
	return func(s *CatalogImportService) {
		if d, err := decimal.NewFromString(rate); err == nil && !d.IsNegative() {
			s.defaultTVA = &d
		}
	}
}

// WithFallbackCategory sets the category assigned to rows that carry none
func WithFallbackCategory(name string) ServiceOption {
	return func(s *CatalogImportService) {
		if name != "" {
			s.fallbackCategory = name
		}
	}
}

// NewCatalogImportService creates the import service
func NewCatalogImportService(scope TransactionScope, sessions csvimport.SessionStore, logger *zap.Logger, opts ...ServiceOption) *CatalogImportService {
	s := &CatalogImportService{
		scope:       scope,
		sessions:    sessions,
		mapper:      csvimport.NewHeaderMapper(csvimport.DefaultSynonyms()),
		logger:      logger,
		previewRows: defaultPreviewRows,
		maxRows:     defaultMaxRows,
		maxErrors:   defaultMaxErrors,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preview parses the upload, detects the delimiter, normalizes headers and
// proposes a column mapping. Read-only: nothing durable happens here.
func (s *CatalogImportService) Preview(ctx context.Context, input PreviewInput) (*PreviewResult, error) {
	if len(input.Content) == 0 {
		return nil, csvimport.ErrEmptyFile
	}

	var override rune
	if input.Delimiter != "" {
		override = []rune(input.Delimiter)[0]
	}
	delimiter := csvimport.DetectDelimiter(input.Content, override)

	reader, err := csvimport.NewReaderFromBytes(input.Content,
		csvimport.WithDelimiter(delimiter),
		csvimport.WithHeader(input.HasHeader),
		csvimport.WithRowLimit(s.previewRows),
	)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	headers := reader.Headers()
	normalized := csvimport.NormalizeHeaders(headers)
	mapping := s.mapper.Map(headers)

	sample := make([][]string, 0, len(rows))
	for _, row := range rows {
		sample = append(sample, row.Cells)
	}

	session := csvimport.NewSession(input.FileName, int64(len(input.Content)))
	session.Delimiter = string(delimiter)
	session.UpdateState(csvimport.StateParsed)
	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("import preview",
		zap.String("session_id", session.ID.String()),
		zap.String("file", input.FileName),
		zap.String("delimiter", string(delimiter)),
		zap.Int("sample_rows", len(sample)),
	)

	return &PreviewResult{
		SessionID:         session.ID.String(),
		DetectedDelimiter: string(delimiter),
		Headers:           headers,
		NormalizedHeaders: normalized,
		SampleRows:        sample,
		AutoMapping:       mapping,
	}, nil
}

// Commit reconciles the confirmed rows against the catalog. All writes run
// inside one transaction; a dry run rolls that transaction back and reports
// the counts that would have resulted.
//
// Per-row failures produce diagnostics and never undo earlier rows. Only a
// fatal storage error aborts the batch, in which case the partial result is
// returned alongside the error.
func (s *CatalogImportService) Commit(ctx context.Context, input CommitInput) (*ImportResult, error) {
	if len(input.Rows) > s.maxRows {
		return nil, csvimport.NewRowError(0, "", csvimport.ErrCodeImportRowLimit,
			fmt.Sprintf("row count %d exceeds limit %d", len(input.Rows), s.maxRows))
	}

	session := s.resolveSession(input.SessionID)
	if session != nil {
		session.UpdateState(csvimport.StateMappingConfirmed)
		session.UpdateState(csvimport.StateCommitting)
		session.TotalRows = len(input.Rows)
		_ = s.sessions.Save(session)
	}

	if input.Options.TVARateDefault == nil {
		input.Options.TVARateDefault = s.defaultTVA
	}
	if input.Options.FallbackCategory == "" {
		input.Options.FallbackCategory = s.fallbackCategory
	}

	result := &ImportResult{DryRun: input.Options.DryRun}
	extractor := csvimport.NewExtractor(input.Mapping, s.mapper, input.Headers)
	diags := csvimport.NewErrorCollection(s.maxErrors)

	var fatalErr error
	execErr := s.scope.Execute(ctx, func(repos Repositories) error {
		reconciler := NewReconciler(repos, input.Options, result)
		rowNum := 0
		for _, cells := range input.Rows {
			row := &csvimport.Row{Cells: cells}
			if row.IsEmpty() {
				result.Skipped++
				continue
			}
			rowNum++
			row.Number = rowNum

			rec := extractor.Extract(row)
			if rec[csvimport.FieldReference] == "" && rec[csvimport.FieldName] == "" && rec[csvimport.FieldSKU] == "" {
				result.Skipped++
				continue
			}

			if err := reconciler.ReconcileRow(ctx, rowNum, rec); err != nil {
				if IsFatal(err) {
					// commit what succeeded so far; the partial result stands
					fatalErr = err
					break
				}
				diags.Add(csvimport.NewRowError(rowNum, "", csvimport.ErrCodeImportValidation, err.Error()))
			}
		}
		if input.Options.DryRun {
			return errDryRunRollback
		}
		return nil
	})

	result.Errors = diags.TotalCount()
	result.ErrorsTruncated = diags.IsTruncated()
	for _, re := range diags.Errors() {
		result.Diagnostics = append(result.Diagnostics, RowDiagnostic{Row: re.Row, Message: re.Message})
	}

	if execErr != nil && !errors.Is(execErr, errDryRunRollback) {
		s.finishSession(session, csvimport.StateFailed, result)
		return result, fmt.Errorf("import transaction: %w", execErr)
	}
	if fatalErr != nil {
		s.finishSession(session, csvimport.StateFailed, result)
		return result, fatalErr
	}

	state := csvimport.StateCommitted
	if input.Options.DryRun {
		state = csvimport.StateRolledBack
	}
	s.finishSession(session, state, result)

	s.logger.Info("import commit finished",
		zap.Bool("dry_run", input.Options.DryRun),
		zap.Int("parts_created", result.PartsCreated),
		zap.Int("parts_updated", result.PartsUpdated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", result.Errors),
	)

	return result, nil
}

// SessionStatus returns a session for status polling
func (s *CatalogImportService) SessionStatus(id string) (*csvimport.Session, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, shared.ErrNotFound
	}
	return session, nil
}

func (s *CatalogImportService) resolveSession(id string) *csvimport.Session {
	if id == "" {
		return nil
	}
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil
	}
	return session
}

func (s *CatalogImportService) finishSession(session *csvimport.Session, state csvimport.SessionState, result *ImportResult) {
	if session == nil {
		return
	}
	session.ErrorRows = result.Errors
	session.UpdateState(state)
	_ = s.sessions.Save(session)
}

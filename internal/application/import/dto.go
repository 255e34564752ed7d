package importapp

import (
	csvimport "github.com/partsdepot/backend/internal/infrastructure/import"
	"github.com/shopspring/decimal"
)

// PreviewInput carries everything needed to parse a sample of an upload
type PreviewInput struct {
	FileName  string
	Content   []byte
	Delimiter string // optional override, single character
	HasHeader bool
}

// PreviewResult echoes the detected structure back to the caller for
// confirmation. Nothing durable happens during preview.
type PreviewResult struct {
	SessionID         string            `json:"session_id"`
	DetectedDelimiter string            `json:"detected_delimiter"`
	Headers           []string          `json:"headers"`
	NormalizedHeaders []string          `json:"normalized_headers"`
	SampleRows        [][]string        `json:"sample_rows"`
	AutoMapping       csvimport.Mapping `json:"auto_mapping"`
}

// CommitOptions tunes one commit run
type CommitOptions struct {
	// DefaultManufacturer names the manufacturer applied to rows that carry
	// none; resolved (find-or-create) once per batch.
	DefaultManufacturer string
	// TVARateDefault fills the VAT rate on created parts whose row has none.
	TVARateDefault *decimal.Decimal
	// FallbackCategory overrides the UNCLASSIFIED sentinel assigned to rows
	// that carry no category.
	FallbackCategory string
	// DryRun executes the full reconciliation inside a rollback-always
	// transaction and reports the counts that would have resulted.
	DryRun bool
}

// CommitInput is the confirmed upload plus its mapping
type CommitInput struct {
	SessionID string
	Headers   []string
	Rows      [][]string
	Mapping   csvimport.Mapping
	Options   CommitOptions
}

// RowDiagnostic is one line-numbered problem report. Row numbers are 1-based
// over data rows.
type RowDiagnostic struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult aggregates what one batch did (or, for a dry run, would do)
type ImportResult struct {
	PartsCreated         int             `json:"parts_created"`
	PartsUpdated         int             `json:"parts_updated"`
	ManufacturersCreated int             `json:"manufacturers_created"`
	BrandsCreated        int             `json:"brands_created"`
	ModelsCreated        int             `json:"models_created"`
	FitmentsCreated      int             `json:"fitments_created"`
	ReferencesCreated    int             `json:"references_created"`
	PricesCreated        int             `json:"prices_created"`
	Skipped              int             `json:"skipped"`
	Errors               int             `json:"errors"`
	ErrorsTruncated      bool            `json:"errors_truncated,omitempty"`
	Diagnostics          []RowDiagnostic `json:"diagnostics,omitempty"`
	DryRun               bool            `json:"dry_run"`
}

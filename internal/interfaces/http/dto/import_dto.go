package dto

// ColumnMappingRequest maps one CSV column index to a catalog field
type ColumnMappingRequest struct {
	Column int    `json:"column" binding:"min=0"`
	Field  string `json:"field" binding:"required,import_field"`
}

// CommitOptionsRequest tunes one import commit
type CommitOptionsRequest struct {
	DefaultManufacturer string `json:"default_manufacturer"`
	TVARateDefault      string `json:"tva_rate_default"`
	DryRun              bool   `json:"dry_run"`
}

// CommitImportRequest carries the confirmed upload plus its column mapping
type CommitImportRequest struct {
	SessionID string                 `json:"session_id" binding:"omitempty,uuid"`
	Headers   []string               `json:"headers" binding:"required,min=1"`
	Rows      [][]string             `json:"rows" binding:"required"`
	Mapping   []ColumnMappingRequest `json:"mapping" binding:"required,min=1,dive"`
	Options   CommitOptionsRequest   `json:"options"`
}

// SessionIDRequest represents a request with a session ID path parameter
type SessionIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

package datagrid

import "errors"

// Programmer errors returned by New and column validation.
var (
	ErrNoColumns       = errors.New("datagrid: grid has no columns")
	ErrMissingContent  = errors.New("datagrid: column has no Content renderer")
	ErrMissingKey      = errors.New("datagrid: column has no Key")
	ErrDuplicateColumn = errors.New("datagrid: duplicate column key")
)

// Runtime errors of grid operations.
var (
	ErrUnknownColumn   = errors.New("datagrid: unknown column")
	ErrNotSortable     = errors.New("datagrid: column is not sortable")
	ErrNotEditable     = errors.New("datagrid: cell is not editable")
	ErrRowOutOfRange   = errors.New("datagrid: row out of range")
	ErrInvalidPageSize = errors.New("datagrid: invalid page size")
	ErrEditClosed      = errors.New("datagrid: edit session is closed")
	ErrNoAction        = errors.New("datagrid: column has no action")
)

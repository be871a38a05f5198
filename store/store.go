/*
Package store defines persistence for saved loan definitions.

PURPOSE:
  Lets a user keep named loans ("Our house", "Car refinance") and compute
  them again later. Only the inputs are stored - the JSON loan definition
  accepted by the factory package. Computed schedules are never persisted;
  they are derived on every request.

KEY TYPES:
  Store:      Save / Get / List / Delete / Reset
  LoanRecord: A stored definition with version and timestamps

VERSIONING:
  Saving an existing ID replaces the definition and increments Version.

IMPLEMENTATIONS:
  - store/memory: In-memory, for tests and ephemeral servers
  - store/sqlite: SQLite with WAL

SEE ALSO:
  - factory/loan.go: LoanJSON format stored in ConfigJSON
  - api/handlers.go: Saved loan endpoints
*/
package store

import (
	"context"
	"errors"
	"time"
)

// ErrLoanNotFound is returned when deleting a loan that does not exist.
var ErrLoanNotFound = errors.New("loan not found")

// LoanRecord is a stored loan definition.
type LoanRecord struct {
	ID         string
	Name       string
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Store persists loan definitions.
type Store interface {
	// SaveLoan inserts or replaces a loan. Replacing bumps Version.
	SaveLoan(ctx context.Context, loan LoanRecord) error

	// GetLoan returns the loan, or nil if it does not exist.
	GetLoan(ctx context.Context, id string) (*LoanRecord, error)

	// ListLoans returns all loans ordered by name.
	ListLoans(ctx context.Context) ([]LoanRecord, error)

	// DeleteLoan removes a loan. Returns ErrLoanNotFound if missing.
	DeleteLoan(ctx context.Context, id string) error

	// Reset removes every loan.
	Reset(ctx context.Context) error

	Close() error
}

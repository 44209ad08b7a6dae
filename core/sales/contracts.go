package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("sales: not found")
	// ErrInvalidCredentials is returned by AuthProvider.Login for a bad
	// email/password pair.
	ErrInvalidCredentials = errors.New("sales: invalid credentials")
)

// ReportStore persists daily reports and their visits and comments.
type ReportStore interface {
	CreateReport(ctx context.Context, r *DailyReport) error
	GetReport(ctx context.Context, id uuid.UUID) (*DailyReport, error)
	ListReports(ctx context.Context, salesPersonID uuid.UUID, from, to time.Time) ([]DailyReport, error)
	UpdateReport(ctx context.Context, r *DailyReport) error
	DeleteReport(ctx context.Context, id uuid.UUID) error

	AddVisit(ctx context.Context, v *Visit) error
	ListVisits(ctx context.Context, reportID uuid.UUID) ([]Visit, error)

	AddComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, reportID uuid.UUID) ([]Comment, error)
}

// CustomerStore persists customer master data.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

// SalesPersonStore persists sales staff master data.
type SalesPersonStore interface {
	CreateSalesPerson(ctx context.Context, p *SalesPerson) error
	GetSalesPerson(ctx context.Context, id uuid.UUID) (*SalesPerson, error)
	GetSalesPersonByEmail(ctx context.Context, email string) (*SalesPerson, error)
	ListSalesPersons(ctx context.Context) ([]SalesPerson, error)
	UpdateSalesPerson(ctx context.Context, p *SalesPerson) error
	DeleteSalesPerson(ctx context.Context, id uuid.UUID) error
}

// AuthProvider verifies credentials and manages sessions.
type AuthProvider interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	SessionFromToken(ctx context.Context, token string) (*Session, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// CSRFGuard issues and validates anti-forgery tokens for state-changing
// form submissions.
type CSRFGuard interface {
	Issue(ctx context.Context, sessionToken string) (string, error)
	Validate(ctx context.Context, sessionToken, csrfToken string) error
}

// PasswordPolicy decides whether a candidate password is acceptable.
type PasswordPolicy interface {
	Validate(password string) error
}

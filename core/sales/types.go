package sales

import (
	"time"

	"github.com/google/uuid"
)

// Role controls what a signed-in sales person may see and edit.
type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// CanViewAll reports whether the role may read reports owned by other
// members. Members see their own data only.
func (r Role) CanViewAll() bool {
	return r == RoleManager || r == RoleAdmin
}

// CanManageMasters reports whether the role may edit master data
// (customers, sales staff).
func (r Role) CanManageMasters() bool {
	return r == RoleAdmin
}

// SalesPerson is a member of the sales staff master data.
type SalesPerson struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Customer is a customer master data record.
type Customer struct {
	ID        uuid.UUID
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DailyReport is one sales person's report for one business day.
type DailyReport struct {
	ID            uuid.UUID
	SalesPersonID uuid.UUID
	ReportDate    time.Time
	Content       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Visit records one customer visit referenced by a daily report.
type Visit struct {
	ID         uuid.UUID
	ReportID   uuid.UUID
	CustomerID uuid.UUID
	Note       string
	VisitedAt  time.Time
}

// Comment is feedback attached to a daily report, typically by a
// manager.
type Comment struct {
	ID        uuid.UUID
	ReportID  uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	CreatedAt time.Time
}

// Session is an authenticated sales person plus the token that proves
// it.
type Session struct {
	Token     string
	Person    SalesPerson
	ExpiresAt time.Time
}

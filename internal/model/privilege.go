package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "stock:approve"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Approve Stock Movement"
}

// Default privileges for the system. A user's access is this flat list of
// codes, nothing more granular.
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Ticket management (creation is public, the rest is gated)
	{Code: "ticket:view", Name: "View Ticket"},
	{Code: "ticket:update_status", Name: "Update Ticket Status"},
	{Code: "ticket:delete", Name: "Delete Ticket"},
	// Sparepart ledger
	{Code: "stock:view", Name: "View Stock"},
	{Code: "stock:record", Name: "Record Stock Movement"},
	{Code: "stock:approve", Name: "Approve Stock Movement"},
	{Code: "stock:delete", Name: "Delete Stock Movement"},
	// Dashboard & export
	{Code: "dashboard:view", Name: "View Dashboard"},
	{Code: "export:download", Name: "Download CSV Export"},
}

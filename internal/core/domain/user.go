package domain

// User is an authenticated person. Company membership and roles live in
// UserCompany rows, not here.
type User struct {
	UserID         string `json:"userID"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	HashedPassword string `json:"-"`
	IsActive       bool   `json:"isActive"`
	AuditFields
}

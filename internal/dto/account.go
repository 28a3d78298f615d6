package dto

import (
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create an account.
type CreateAccountRequest struct {
	Number          string             `json:"number" binding:"required,numeric"`
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EXPENSE REVENUE"`
	GroupID         *string            `json:"groupID"`
	VATCode         string             `json:"vatCode"`
	LinkedAccountID *string            `json:"linkedAccountID"`
}

// UpdateAccountRequest defines the updatable account fields. Pointers
// distinguish zero-value updates from fields not provided.
type UpdateAccountRequest struct {
	Name     *string `json:"name"`
	GroupID  *string `json:"groupID"`
	VATCode  *string `json:"vatCode"`
	IsActive *bool   `json:"isActive"`
}

// AccountResponse is the API view of an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Number          string             `json:"number"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	GroupID         *string            `json:"groupID"`
	IsSystem        bool               `json:"isSystem"`
	SystemCode      string             `json:"systemCode,omitempty"`
	VATCode         string             `json:"vatCode,omitempty"`
	LinkedAccountID *string            `json:"linkedAccountID,omitempty"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// ToAccountResponse converts a domain account.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Number:          acc.Number,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		GroupID:         acc.GroupID,
		IsSystem:        acc.IsSystem,
		SystemCode:      acc.SystemCode,
		VATCode:         acc.VATCode,
		LinkedAccountID: acc.LinkedAccountID,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}

// CreateAccountGroupRequest defines the data needed to create a group.
type CreateAccountGroupRequest struct {
	Number   string  `json:"number" binding:"required,numeric"`
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parentID"`
}

// UpdateAccountGroupRequest defines the updatable group fields.
type UpdateAccountGroupRequest struct {
	Number *string `json:"number"`
	Name   *string `json:"name"`
}

// AccountGroupResponse is the API view of an account group.
type AccountGroupResponse struct {
	GroupID  string  `json:"groupID"`
	Number   string  `json:"number"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentID"`
}

// ToAccountGroupResponse converts a domain group.
func ToAccountGroupResponse(g *domain.AccountGroup) AccountGroupResponse {
	return AccountGroupResponse{GroupID: g.GroupID, Number: g.Number, Name: g.Name, ParentID: g.ParentID}
}

// ToAccountGroupResponses converts a slice of domain groups.
func ToAccountGroupResponses(groups []domain.AccountGroup) []AccountGroupResponse {
	out := make([]AccountGroupResponse, len(groups))
	for i := range groups {
		out[i] = ToAccountGroupResponse(&groups[i])
	}
	return out
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// Member represents an associate of one or more groups
type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Nickname  string    `json:"apelido"`
	Position  string    `json:"posicao"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberRef is the identity subset embedded in membership and request listings
type MemberRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"nome"`
	Nickname string `json:"apelido"`
	Position string `json:"posicao"`
}

// CreateMemberRequest represents a request to register a member
type CreateMemberRequest struct {
	Name     string `json:"nome"`
	Nickname string `json:"apelido"`
	Position string `json:"posicao"`
}

// Validate checks required fields
func (r *CreateMemberRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: nome is required", ErrInvalidRequest)
	}
	return nil
}

// UpdateMemberRequest carries a partial update; nil fields are left unchanged
type UpdateMemberRequest struct {
	Name     *string `json:"nome,omitempty"`
	Nickname *string `json:"apelido,omitempty"`
	Position *string `json:"posicao,omitempty"`
}

// Validate rejects an explicit empty name
func (r *UpdateMemberRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return fmt.Errorf("%w: nome cannot be empty", ErrInvalidRequest)
	}
	return nil
}

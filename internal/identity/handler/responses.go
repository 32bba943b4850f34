package handler

import (
	"dojoroll/internal/identity/models"
)

// personResponse is the wire shape for a member across all endpoints.
// Credential IDs and password material never appear; linked is derived.
type personResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Rank   int    `json:"rank"`
	Linked bool   `json:"linked"`

	Email       *string `json:"email,omitempty"`
	ClubID      *string `json:"club_id,omitempty"`
	ClubOffice  *string `json:"club_office,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	MediaRef    *string `json:"media_ref,omitempty"`

	Version int64 `json:"version"`
}

func toPersonResponse(p *models.Person) personResponse {
	resp := personResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Role:        string(p.Role),
		Rank:        p.Rank,
		Linked:      p.IsLinked(),
		Email:       p.Email,
		ClubOffice:  p.ClubOffice,
		Bio:         p.Bio,
		DateOfBirth: p.DateOfBirth,
		MediaRef:    p.MediaRef,
		Version:     p.Version,
	}
	if p.Club != nil {
		club := p.Club.String()
		resp.ClubID = &club
	}
	return resp
}

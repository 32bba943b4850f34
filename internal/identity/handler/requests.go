package handler

import (
	"dojoroll/internal/identity/models"
	"dojoroll/internal/identity/service"
	id "dojoroll/pkg/domain"
	dErrors "dojoroll/pkg/domain-errors"
)

// provisionRequest is the wire shape for creating a member. Email and
// password travel together or not at all.
type provisionRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`

	ClubID      string `json:"club_id,omitempty"`
	ClubOffice  string `json:"club_office,omitempty"`
	Rank        int    `json:"rank,omitempty"`
	Bio         string `json:"bio,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	MediaRef    string `json:"media_ref,omitempty"`
}

func (b *provisionRequest) toService() (service.ProvisionRequest, error) {
	role, err := id.ParseRole(b.Role)
	if err != nil {
		return service.ProvisionRequest{}, err
	}

	req := service.ProvisionRequest{
		Name:        b.Name,
		Role:        role,
		Email:       b.Email,
		Password:    b.Password,
		ClubOffice:  b.ClubOffice,
		Rank:        b.Rank,
		Bio:         b.Bio,
		DateOfBirth: b.DateOfBirth,
		MediaRef:    b.MediaRef,
	}
	if b.ClubID != "" {
		clubID, err := id.ParseClubID(b.ClubID)
		if err != nil {
			return service.ProvisionRequest{}, err
		}
		req.Club = &clubID
	}
	return req, nil
}

// modifyRequest is the wire shape for partial member updates. Absent fields
// are left alone; the clear_* flags drop optional fields entirely, so a
// client can distinguish "unset club" from "no opinion".
type modifyRequest struct {
	Name *string `json:"name,omitempty"`
	Role *string `json:"role,omitempty"`
	Rank *int    `json:"rank,omitempty"`

	ClubID    *string `json:"club_id,omitempty"`
	ClearClub bool    `json:"clear_club,omitempty"`

	ClubOffice      *string `json:"club_office,omitempty"`
	ClearClubOffice bool    `json:"clear_club_office,omitempty"`

	Bio         *string `json:"bio,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	MediaRef    *string `json:"media_ref,omitempty"`

	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func (b *modifyRequest) toService(personID, callerID id.PersonID, callerRole id.Role) (service.ModifyRequest, error) {
	patch := models.Patch{
		Name:            b.Name,
		Rank:            b.Rank,
		ClearClub:       b.ClearClub,
		ClubOffice:      b.ClubOffice,
		ClearClubOffice: b.ClearClubOffice,
		Bio:             b.Bio,
		DateOfBirth:     b.DateOfBirth,
		MediaRef:        b.MediaRef,
	}

	if b.Role != nil {
		role, err := id.ParseRole(*b.Role)
		if err != nil {
			return service.ModifyRequest{}, err
		}
		patch.Role = &role
	}
	if b.ClubID != nil {
		if b.ClearClub {
			return service.ModifyRequest{}, dErrors.New(dErrors.CodeBadRequest, "club_id and clear_club are mutually exclusive")
		}
		clubID, err := id.ParseClubID(*b.ClubID)
		if err != nil {
			return service.ModifyRequest{}, err
		}
		patch.Club = &clubID
	}

	return service.ModifyRequest{
		PersonID:   personID,
		CallerID:   callerID,
		CallerRole: callerRole,
		Patch:      patch,
		Email:      b.Email,
		Password:   b.Password,
	}, nil
}

// promoteRequest is the wire shape for granting login capability.
type promoteRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     *string `json:"role,omitempty"`
}

func (b *promoteRequest) toService(personID id.PersonID) (service.PromoteRequest, error) {
	req := service.PromoteRequest{
		PersonID: personID,
		Email:    b.Email,
		Password: b.Password,
	}
	if b.Role != nil {
		role, err := id.ParseRole(*b.Role)
		if err != nil {
			return service.PromoteRequest{}, err
		}
		req.NewRole = &role
	}
	return req, nil
}

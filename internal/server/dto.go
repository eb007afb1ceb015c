package server

import (
	"time"

	claimdomain "insurance-claims/backend/internal/claim/domain"
	notedomain "insurance-claims/backend/internal/note/domain"
	policydomain "insurance-claims/backend/internal/policy/domain"
	userdomain "insurance-claims/backend/internal/user/domain"
)

// Wire representations. Password hashes and invite tokens never leave the
// service boundary except the invite URL returned at creation.

type userDTO struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	Role              string     `json:"role"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	IsActive          bool       `json:"isActive"`
	PolicyID          string     `json:"policyId,omitempty"`
	PolicyName        string     `json:"policyName,omitempty"`
	PolicyDescription string     `json:"policyDescription,omitempty"`
	PolicyStatus      string     `json:"policyStatus,omitempty"`
	InviteExpiresAt   *time.Time `json:"inviteExpiresAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func toUserDTO(p *userdomain.Profile) userDTO {
	return userDTO{
		ID:                p.ID,
		Email:             p.Email,
		Role:              string(p.Role),
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		IsActive:          p.IsActive,
		PolicyID:          p.PolicyID,
		PolicyName:        p.PolicyName,
		PolicyDescription: p.PolicyDescription,
		PolicyStatus:      p.PolicyStatus,
		InviteExpiresAt:   p.InviteExpiresAt,
		CreatedAt:         p.CreatedAt,
	}
}

func toUserDTOs(profiles []*userdomain.Profile) []userDTO {
	out := make([]userDTO, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toUserDTO(p))
	}
	return out
}

type agentDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func toAgentDTOs(agents []*userdomain.User) []agentDTO {
	out := make([]agentDTO, 0, len(agents))
	for _, a := range agents {
		out = append(out, agentDTO{ID: a.ID, Email: a.Email, FirstName: a.FirstName, LastName: a.LastName})
	}
	return out
}

type claimDTO struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	PolicyID           string    `json:"policyId"`
	DateOfOccurrence   time.Time `json:"dateOfOccurrence"`
	Location           string    `json:"location"`
	Cause              string    `json:"cause"`
	Description        string    `json:"description"`
	Status             string    `json:"status"`
	AssignedAgentID    string    `json:"assignedAgentId,omitempty"`
	UpdatedByID        string    `json:"updatedById,omitempty"`
	Documents          []string  `json:"documents"`
	CustomerEmail      string    `json:"customerEmail,omitempty"`
	CustomerFirstName  string    `json:"customerFirstName,omitempty"`
	CustomerLastName   string    `json:"customerLastName,omitempty"`
	AgentEmail         string    `json:"agentEmail,omitempty"`
	AgentFirstName     string    `json:"agentFirstName,omitempty"`
	AgentLastName      string    `json:"agentLastName,omitempty"`
	UpdatedByEmail     string    `json:"updatedByEmail,omitempty"`
	UpdatedByFirstName string    `json:"updatedByFirstName,omitempty"`
	UpdatedByLastName  string    `json:"updatedByLastName,omitempty"`
	PolicyName         string    `json:"policyName,omitempty"`
	PolicyDescription  string    `json:"policyDescription,omitempty"`
	PolicyStatus       string    `json:"policyStatus,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func toClaimDTO(d *claimdomain.Detail) claimDTO {
	docs := d.Documents
	if docs == nil {
		docs = []string{}
	}
	return claimDTO{
		ID:                 d.ID,
		UserID:             d.OwnerUserID,
		PolicyID:           d.PolicyID,
		DateOfOccurrence:   d.DateOfOccurrence,
		Location:           d.Location,
		Cause:              string(d.Cause),
		Description:        d.Description,
		Status:             string(d.Status),
		AssignedAgentID:    d.AssignedAgentID,
		UpdatedByID:        d.UpdatedByID,
		Documents:          docs,
		CustomerEmail:      d.CustomerEmail,
		CustomerFirstName:  d.CustomerFirstName,
		CustomerLastName:   d.CustomerLastName,
		AgentEmail:         d.AgentEmail,
		AgentFirstName:     d.AgentFirstName,
		AgentLastName:      d.AgentLastName,
		UpdatedByEmail:     d.UpdatedByEmail,
		UpdatedByFirstName: d.UpdatedByFirstName,
		UpdatedByLastName:  d.UpdatedByLastName,
		PolicyName:         d.PolicyName,
		PolicyDescription:  d.PolicyDescription,
		PolicyStatus:       d.PolicyStatus,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func toClaimDTOs(details []*claimdomain.Detail) []claimDTO {
	out := make([]claimDTO, 0, len(details))
	for _, d := range details {
		out = append(out, toClaimDTO(d))
	}
	return out
}

type historyDTO struct {
	ID                 string    `json:"id"`
	ClaimID            string    `json:"claimId"`
	FromStatus         string    `json:"fromStatus,omitempty"`
	ToStatus           string    `json:"toStatus"`
	ChangedByID        string    `json:"changedById"`
	ChangedByEmail     string    `json:"changedByEmail,omitempty"`
	ChangedByFirstName string    `json:"changedByFirstName,omitempty"`
	ChangedByLastName  string    `json:"changedByLastName,omitempty"`
	Note               string    `json:"note,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

func toHistoryDTOs(entries []*claimdomain.HistoryEntry) []historyDTO {
	out := make([]historyDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyDTO{
			ID:                 e.ID,
			ClaimID:            e.ClaimID,
			FromStatus:         string(e.FromStatus),
			ToStatus:           string(e.ToStatus),
			ChangedByID:        e.ChangedByUserID,
			ChangedByEmail:     e.ChangedByEmail,
			ChangedByFirstName: e.ChangedByFirstName,
			ChangedByLastName:  e.ChangedByLastName,
			Note:               e.Note,
			CreatedAt:          e.CreatedAt,
		})
	}
	return out
}

type noteDTO struct {
	ID              string    `json:"id"`
	ClaimID         string    `json:"claimId"`
	UserID          string    `json:"userId"`
	Note            string    `json:"note"`
	AuthorEmail     string    `json:"authorEmail,omitempty"`
	AuthorFirstName string    `json:"authorFirstName,omitempty"`
	AuthorLastName  string    `json:"authorLastName,omitempty"`
	AuthorRole      string    `json:"authorRole,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toNoteDTO(d *notedomain.Detail) noteDTO {
	return noteDTO{
		ID:              d.ID,
		ClaimID:         d.ClaimID,
		UserID:          d.AuthorUserID,
		Note:            d.Text,
		AuthorEmail:     d.AuthorEmail,
		AuthorFirstName: d.AuthorFirstName,
		AuthorLastName:  d.AuthorLastName,
		AuthorRole:      d.AuthorRole,
		CreatedAt:       d.CreatedAt,
	}
}

func toNoteDTOs(details []*notedomain.Detail) []noteDTO {
	out := make([]noteDTO, 0, len(details))
	for _, d := range details {
		out = append(out, toNoteDTO(d))
	}
	return out
}

type policyDTO struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	CreatedByID        string    `json:"createdById,omitempty"`
	CreatedByEmail     string    `json:"createdByEmail,omitempty"`
	CreatedByFirstName string    `json:"createdByFirstName,omitempty"`
	CreatedByLastName  string    `json:"createdByLastName,omitempty"`
	Status             string    `json:"status"`
	EffectiveAtDate    time.Time `json:"effectiveAtDate"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func toPolicyDTO(d *policydomain.Detail) policyDTO {
	return policyDTO{
		ID:                 d.ID,
		Name:               d.Name,
		Description:        d.Description,
		CreatedByID:        d.CreatedByID,
		CreatedByEmail:     d.CreatedByEmail,
		CreatedByFirstName: d.CreatedByFirstName,
		CreatedByLastName:  d.CreatedByLastName,
		Status:             string(d.Status),
		EffectiveAtDate:    d.EffectiveAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func toPolicyDTOs(details []*policydomain.Detail) []policyDTO {
	out := make([]policyDTO, 0, len(details))
	for _, d := range details {
		out = append(out, toPolicyDTO(d))
	}
	return out
}

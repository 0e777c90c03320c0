package models

// Inbound dispute lifecycle signal DTOs. Each carries a full dispute
// snapshot; updates also carry the previous snapshot for diffing.

type DisputeCreatedRequest struct {
	Dispute Dispute `json:"dispute" validate:"required"`
}

type DisputeUpdatedRequest struct {
	Dispute  Dispute `json:"dispute" validate:"required"`
	Previous Dispute `json:"previous" validate:"required"`
}

type DisputeResolvedRequest struct {
	Dispute Dispute `json:"dispute" validate:"required"`
}

type DisputeEscalatedRequest struct {
	Dispute Dispute `json:"dispute" validate:"required"`
	Reason  string  `json:"reason" validate:"required"`
}

type DisputeActivityRequest struct {
	Dispute  Dispute `json:"dispute" validate:"required"`
	UserID   string  `json:"userId"`
	UserName string  `json:"userName"`
	Summary  string  `json:"summary"`
}

// Package assignmentrepo provides data transfer objects and mapping
// functions for assignment persistence.
package assignmentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting
// assignments. Order and partner ids are indexed for the active-by-order
// and sweep queries.
type AssignmentDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	PartnerID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status      int        `gorm:"type:int;not null;index"`
	AssignedAt  time.Time  `gorm:"not null"`
	RespondedAt *time.Time `gorm:""`
	Reason      string     `gorm:"type:text"`
	Version     int        `gorm:"type:int;not null"`
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// fromDomain converts an assignment domain aggregate to its database representation.
func fromDomain(a *partner.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:          a.ID().Bytes(),
		OrderID:     a.OrderID().Bytes(),
		PartnerID:   a.PartnerID().Bytes(),
		Status:      int(a.Status()),
		AssignedAt:  a.AssignedAt(),
		RespondedAt: a.RespondedAt(),
		Reason:      a.Reason(),
		Version:     a.Version(),
	}
}

// toDomain converts a database DTO to an assignment domain aggregate.
func toDomain(dto AssignmentDTO) (*partner.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}

	return partner.RestoreAssignment(
		id, orderID, partnerID,
		partner.AssignmentStatus(dto.Status),
		dto.AssignedAt, dto.RespondedAt, dto.Reason, dto.Version,
	)
}

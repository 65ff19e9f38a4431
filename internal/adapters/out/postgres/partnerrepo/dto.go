// Package partnerrepo provides data transfer objects and mapping functions
// for delivery partner persistence.
package partnerrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// PartnerDTO represents the database structure for persisting partners.
// The availability flag is indexed because the assignment pool query
// filters on it.
type PartnerDTO struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name       string      `gorm:"type:varchar(255);not null"`
	Phone      string      `gorm:"type:varchar(32)"`
	PushTarget string      `gorm:"type:varchar(255)"`
	Location   LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	Available  bool        `gorm:"not null;index"`
	LastIdleAt time.Time   `gorm:"not null"`
	Version    int         `gorm:"type:int;not null"`
}

// TableName specifies the database table name for partner entities.
func (PartnerDTO) TableName() string {
	return "partners"
}

// LocationDTO represents the embedded partner coordinates.
type LocationDTO struct {
	X kernel.Coordinate `gorm:"type:smallint"`
	Y kernel.Coordinate `gorm:"type:smallint"`
}

// fromDomain converts a partner domain aggregate to its database representation.
func fromDomain(p *partner.Partner) PartnerDTO {
	return PartnerDTO{
		ID:         p.ID().Bytes(),
		Name:       p.Name(),
		Phone:      p.Phone(),
		PushTarget: p.PushTarget(),
		Location: LocationDTO{
			X: p.Location().X(),
			Y: p.Location().Y(),
		},
		Available:  p.IsAvailable(),
		LastIdleAt: p.LastIdleAt(),
		Version:    p.Version(),
	}
}

// toDomain converts a database DTO to a partner domain aggregate.
func toDomain(dto PartnerDTO) (*partner.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	loc, err := kernel.NewLocation(dto.Location.X, dto.Location.Y)
	if err != nil {
		return nil, err
	}

	return partner.RestorePartner(
		id, dto.Name, dto.Phone, dto.PushTarget, loc,
		dto.Available, dto.LastIdleAt, dto.Version,
	)
}

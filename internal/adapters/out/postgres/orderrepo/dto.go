// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The timeline and handoff credentials live in child tables; everything
// else, including the denormalized contact blocks, sits on the orders row.
type OrderDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number     string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	ShopID     uuid.UUID `gorm:"type:uuid;not null;index"`

	Customer ContactDTO `gorm:"embedded;embeddedPrefix:customer_"`
	Shop     ContactDTO `gorm:"embedded;embeddedPrefix:shop_"`

	ShopLocation LocationDTO `gorm:"embedded;embeddedPrefix:shop_location_"`

	DeliveryType  int `gorm:"type:int;not null"`
	PaymentMethod int `gorm:"type:int;not null"`
	PaymentStatus int `gorm:"type:int;not null"`

	SubtotalPaise    int64 `gorm:"type:bigint;not null"`
	DiscountPaise    int64 `gorm:"type:bigint;not null"`
	DeliveryFeePaise int64 `gorm:"type:bigint;not null"`
	TotalPaise       int64 `gorm:"type:bigint;not null"`

	Status             int    `gorm:"type:int;not null;index"`
	CancellationReason string `gorm:"type:text"`
	EstimatedTime      string `gorm:"type:varchar(64)"`

	PartnerID *uuid.UUID `gorm:"type:uuid;index"`

	// FinishedAt is set when the order reaches a terminal status. Drives
	// the daily summary range query.
	FinishedAt *time.Time `gorm:"index"`

	Version int `gorm:"type:int;not null"`

	Timeline    []TimelineEntryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Credentials []CredentialDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ContactDTO represents an embedded contact block within the order table.
type ContactDTO struct {
	Name       string `gorm:"type:varchar(255);not null"`
	Phone      string `gorm:"type:varchar(32)"`
	Email      string `gorm:"type:varchar(255)"`
	PushTarget string `gorm:"type:varchar(255)"`
}

// LocationDTO represents the embedded shop coordinates within the order table.
type LocationDTO struct {
	X kernel.Coordinate `gorm:"type:smallint"`
	Y kernel.Coordinate `gorm:"type:smallint"`
}

// TimelineEntryDTO represents one audit log entry of an order.
// The surrogate key preserves insertion order across reloads.
type TimelineEntryDTO struct {
	ID      uint      `gorm:"primaryKey;autoIncrement"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Step    int       `gorm:"type:int;not null"`
	Status  int       `gorm:"type:int;not null"`
	At      time.Time `gorm:"not null"`
	Actor   string    `gorm:"type:varchar(255);not null"`
	Notes   string    `gorm:"type:text"`
}

// TableName specifies the database table name for timeline entries.
func (TimelineEntryDTO) TableName() string {
	return "order_timeline"
}

// CredentialDTO represents one handoff credential of an order.
// An order holds at most one credential per purpose.
type CredentialDTO struct {
	OrderID    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Purpose    int        `gorm:"type:int;primaryKey"`
	Code       string     `gorm:"type:varchar(16);not null"`
	IssuedAt   time.Time  `gorm:"not null"`
	ConsumedAt *time.Time `gorm:""`
}

// TableName specifies the database table name for handoff credentials.
func (CredentialDTO) TableName() string {
	return "order_credentials"
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps the full aggregate including the timeline and credential child rows.
func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()

	var partnerID *uuid.UUID
	if id := o.Partner(); id != nil {
		raw := id.Bytes()
		partnerID = &raw
	}

	timeline := make([]TimelineEntryDTO, 0, len(o.Timeline()))
	for _, entry := range o.Timeline() {
		timeline = append(timeline, TimelineEntryDTO{
			OrderID: orderID,
			Step:    int(entry.Step),
			Status:  int(entry.Status),
			At:      entry.At,
			Actor:   entry.Actor,
			Notes:   entry.Notes,
		})
	}

	credentials := make([]CredentialDTO, 0, len(o.Credentials()))
	for _, cred := range o.Credentials() {
		credentials = append(credentials, CredentialDTO{
			OrderID:    orderID,
			Purpose:    int(cred.Purpose()),
			Code:       cred.Code(),
			IssuedAt:   cred.IssuedAt(),
			ConsumedAt: cred.ConsumedAt(),
		})
	}

	var finishedAt *time.Time
	if o.Status().IsTerminal() {
		if entries := o.Timeline(); len(entries) > 0 {
			at := entries[len(entries)-1].At
			finishedAt = &at
		}
	}

	return OrderDTO{
		ID:         orderID,
		Number:     o.Number(),
		CustomerID: o.CustomerID().Bytes(),
		ShopID:     o.ShopID().Bytes(),
		Customer:   contactFromDomain(o.Customer()),
		Shop:       contactFromDomain(o.Shop()),
		ShopLocation: LocationDTO{
			X: o.ShopLocation().X(),
			Y: o.ShopLocation().Y(),
		},
		DeliveryType:       int(o.DeliveryType()),
		PaymentMethod:      int(o.PaymentMethod()),
		PaymentStatus:      int(o.PaymentStatus()),
		SubtotalPaise:      o.Subtotal().Paise(),
		DiscountPaise:      o.Discount().Paise(),
		DeliveryFeePaise:   o.DeliveryFee().Paise(),
		TotalPaise:         o.Total().Paise(),
		Status:             int(o.Status()),
		CancellationReason: o.CancellationReason(),
		EstimatedTime:      o.EstimatedTime(),
		PartnerID:          partnerID,
		FinishedAt:         finishedAt,
		Version:            o.Version(),
		Timeline:           timeline,
		Credentials:        credentials,
	}
}

func contactFromDomain(c order.Contact) ContactDTO {
	return ContactDTO{
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
		PushTarget: c.PushTarget,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate through order.Restore so a corrupted
// row cannot produce a usable order.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		pID, partnerErr := kernel.UUIDFromBytes((*dto.PartnerID)[:])
		if partnerErr != nil {
			return nil, partnerErr
		}
		partnerID = &pID
	}

	loc, err := kernel.NewLocation(dto.ShopLocation.X, dto.ShopLocation.Y)
	if err != nil {
		return nil, err
	}

	subtotal, err := kernel.NewMoney(dto.SubtotalPaise)
	if err != nil {
		return nil, err
	}
	discount, err := kernel.NewMoney(dto.DiscountPaise)
	if err != nil {
		return nil, err
	}
	deliveryFee, err := kernel.NewMoney(dto.DeliveryFeePaise)
	if err != nil {
		return nil, err
	}

	timeline := make([]order.TimelineEntry, 0, len(dto.Timeline))
	for _, entry := range dto.Timeline {
		timeline = append(timeline, order.TimelineEntry{
			Step:   order.EventKind(entry.Step),
			Status: order.Status(entry.Status),
			At:     entry.At,
			Actor:  entry.Actor,
			Notes:  entry.Notes,
		})
	}

	credentials := make([]*order.HandoffCredential, 0, len(dto.Credentials))
	for _, credDTO := range dto.Credentials {
		cred, credErr := order.RestoreHandoffCredential(
			order.CredentialPurpose(credDTO.Purpose),
			credDTO.Code,
			credDTO.IssuedAt,
			credDTO.ConsumedAt,
		)
		if credErr != nil {
			return nil, credErr
		}
		credentials = append(credentials, cred)
	}

	return order.Restore(order.Snapshot{
		ID:                 id,
		Number:             dto.Number,
		CustomerID:         customerID,
		ShopID:             shopID,
		Customer:           contactToDomain(dto.Customer),
		Shop:               contactToDomain(dto.Shop),
		ShopLocation:       loc,
		DeliveryType:       order.DeliveryType(dto.DeliveryType),
		PaymentMethod:      order.PaymentMethod(dto.PaymentMethod),
		PaymentStatus:      order.PaymentStatus(dto.PaymentStatus),
		Subtotal:           subtotal,
		Discount:           discount,
		DeliveryFee:        deliveryFee,
		Status:             order.Status(dto.Status),
		CancellationReason: dto.CancellationReason,
		EstimatedTime:      dto.EstimatedTime,
		Timeline:           timeline,
		Credentials:        credentials,
		PartnerID:          partnerID,
		Version:            dto.Version,
	})
}

func contactToDomain(dto ContactDTO) order.Contact {
	return order.Contact{
		Name:       dto.Name,
		Phone:      dto.Phone,
		Email:      dto.Email,
		PushTarget: dto.PushTarget,
	}
}

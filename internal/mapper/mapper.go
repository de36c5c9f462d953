// Package mapper converts owning-service entities into flat search
// documents. Mappers are pure and total: missing optional fields become
// zero values, and a tenant identifier is never invented. Documents carry
// exactly the tenant scope the entity does.
package mapper

import (
	"strings"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/upstream"
)

// UserDocument maps a user entity. Users span multiple tenants, so the
// document carries the full company set.
func UserDocument(u upstream.User) domain.Document {
	doc := domain.Document{
		ExternalID: u.ExternalID,
		Kind:       domain.KindUser,
		Name:       fullName(u.FirstName, u.LastName),
		Username:   u.Username,
		Email:      u.Email,
		CompanyIDs: u.CompanyExternalIDs,
		Status:     u.Status,
		ImageURL:   u.ImageURL,
	}
	doc.BuildSearchText()
	return doc
}

// BikeDocument maps a bike entity.
func BikeDocument(b upstream.Bike) domain.Document {
	doc := domain.Document{
		ExternalID:  b.ExternalID,
		Kind:        domain.KindBike,
		Name:        b.Name,
		Code:        b.Code,
		FrameNumber: b.FrameNumber,
		CompanyID:   b.CompanyExternalID,
		Status:      b.Status,
		ImageURL:    b.ImageURL,
	}
	doc.BuildSearchText()
	return doc
}

// LocationDocument maps a location entity.
func LocationDocument(l upstream.Location) domain.Document {
	doc := domain.Document{
		ExternalID: l.ExternalID,
		Kind:       domain.KindLocation,
		Name:       l.Name,
		Address:    l.Address,
		City:       l.City,
		CompanyID:  l.CompanyExternalID,
		Status:     l.Status,
	}
	doc.BuildSearchText()
	return doc
}

// HubDocument maps a hub entity.
func HubDocument(h upstream.Hub) domain.Document {
	doc := domain.Document{
		ExternalID: h.ExternalID,
		Kind:       domain.KindHub,
		Name:       h.Name,
		Code:       h.Code,
		Address:    h.Address,
		CompanyID:  h.CompanyExternalID,
		Status:     h.Status,
	}
	doc.BuildSearchText()
	return doc
}

func fullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

package domain

import "fmt"

// Kind identifies an indexed entity kind. Each kind has its own index
// namespace and its own owning service.
type Kind string

const (
	KindUser     Kind = "user"
	KindBike     Kind = "bike"
	KindLocation Kind = "location"
	KindHub      Kind = "hub"
)

// AllKinds lists every kind the service indexes, in display order.
func AllKinds() []Kind {
	return []Kind{KindUser, KindBike, KindLocation, KindHub}
}

// ParseKind validates a kind name. Accepts the plural aliases used by the
// platform's event producers ("users", "bikes", ...).
func ParseKind(s string) (Kind, error) {
	switch s {
	case "user", "users":
		return KindUser, nil
	case "bike", "bikes":
		return KindBike, nil
	case "location", "locations":
		return KindLocation, nil
	case "hub", "hubs":
		return KindHub, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// TenantFieldKind tells the filter builder whether a kind's tenant field
// holds a single company id or a set of them.
type TenantFieldKind int

const (
	// TenantSingle means the document carries one companyId.
	TenantSingle TenantFieldKind = iota
	// TenantMulti means the document carries a companyIds set (users span
	// multiple companies).
	TenantMulti
)

// KindConfig is the data-driven per-kind knowledge consumed by the generic
// query builder. Kind-specific behavior lives here and in the mappers,
// nowhere else.
type KindConfig struct {
	Kind        Kind
	TenantField TenantFieldKind
	// FieldWeights maps searchable field names to their relative weight.
	// Identity fields dominate (5-6), secondary fields trail (1-2).
	FieldWeights map[string]float64
	// CategoryLabel is the human label used in autocomplete suggestions.
	CategoryLabel string
	// URLPrefix builds the client-facing detail URL for a hit.
	URLPrefix string
}

var kindConfigs = map[Kind]KindConfig{
	KindUser: {
		Kind:        KindUser,
		TenantField: TenantMulti,
		FieldWeights: map[string]float64{
			"username": 6,
			"name":     5,
			"email":    2,
		},
		CategoryLabel: "Users",
		URLPrefix:     "/users/",
	},
	KindBike: {
		Kind:        KindBike,
		TenantField: TenantSingle,
		FieldWeights: map[string]float64{
			"name":        5,
			"frameNumber": 5,
			"code":        3,
		},
		CategoryLabel: "Bikes",
		URLPrefix:     "/bikes/",
	},
	KindLocation: {
		Kind:        KindLocation,
		TenantField: TenantSingle,
		FieldWeights: map[string]float64{
			"name":    5,
			"address": 2,
			"city":    2,
		},
		CategoryLabel: "Locations",
		URLPrefix:     "/locations/",
	},
	KindHub: {
		Kind:        KindHub,
		TenantField: TenantSingle,
		FieldWeights: map[string]float64{
			"name":    5,
			"code":    4,
			"address": 2,
		},
		CategoryLabel: "Hubs",
		URLPrefix:     "/hubs/",
	},
}

// ConfigFor returns the kind configuration.
func ConfigFor(k Kind) KindConfig {
	return kindConfigs[k]
}

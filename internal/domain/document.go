package domain

import "strings"

// Document is the flat, denormalized search document for one entity. Its
// identifier is the owning entity's external id; absence from the index
// means "not yet indexed", not "does not exist". Writes are full upserts,
// last write wins.
type Document struct {
	ExternalID string
	Kind       Kind

	// Identity and text fields. Kinds fill only the fields they have;
	// the rest stay empty.
	Name        string
	Username    string
	Email       string
	Code        string
	FrameNumber string
	Address     string
	City        string

	// Tenant scope. Single-tenant kinds set CompanyID, users set
	// CompanyIDs. Never both.
	CompanyID  string
	CompanyIDs []string

	// Display-only metadata, never used for ranking.
	Status   string
	ImageURL string

	// SearchText is the low-weight catch-all concatenation of the text
	// fields above.
	SearchText string
}

// BuildSearchText concatenates the non-empty text fields into the
// catch-all field.
func (d *Document) BuildSearchText() {
	parts := make([]string, 0, 7)
	for _, s := range []string{
		d.Name, d.Username, d.Email, d.Code, d.FrameNumber, d.Address, d.City,
	} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	d.SearchText = strings.Join(parts, " ")
}

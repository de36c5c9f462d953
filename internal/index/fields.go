package index

// Stored field names shared by the engine mapping, the query builder, and
// the hit projection.
const (
	FieldExternalID  = "externalId"
	FieldKind        = "kind"
	FieldName        = "name"
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldCode        = "code"
	FieldFrameNumber = "frameNumber"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldCompanyID   = "companyId"
	FieldCompanyIDs  = "companyIds"
	FieldStatus      = "status"
	FieldImageURL    = "imageUrl"
	FieldSearchText  = "searchText"
)

package upstream

// Entity representations as served by the owning services' read APIs. The
// search core only consumes these; the owning services define the schema.

// User is the account entity owned by the user service. Users can belong
// to several companies at once.
type User struct {
	ExternalID         string   `json:"externalId"`
	Username           string   `json:"username"`
	FirstName          string   `json:"firstName"`
	LastName           string   `json:"lastName"`
	Email              string   `json:"email"`
	Status             string   `json:"status"`
	ImageURL           string   `json:"imageUrl"`
	CompanyExternalIDs []string `json:"companyExternalIds"`
}

// Bike is the vehicle entity owned by the fleet service.
type Bike struct {
	ExternalID        string `json:"externalId"`
	Name              string `json:"name"`
	Code              string `json:"code"`
	FrameNumber       string `json:"frameNumber"`
	Status            string `json:"status"`
	ImageURL          string `json:"imageUrl"`
	CompanyExternalID string `json:"companyExternalId"`
}

// Location is a rental location owned by the location service.
type Location struct {
	ExternalID        string `json:"externalId"`
	Name              string `json:"name"`
	Address           string `json:"address"`
	City              string `json:"city"`
	Status            string `json:"status"`
	CompanyExternalID string `json:"companyExternalId"`
}

// Hub is a docking hub owned by the hub service.
type Hub struct {
	ExternalID        string `json:"externalId"`
	Name              string `json:"name"`
	Code              string `json:"code"`
	Address           string `json:"address"`
	Status            string `json:"status"`
	CompanyExternalID string `json:"companyExternalId"`
}

// Page is one page of a listing response.
type Page[E any] struct {
	Items   []E  `json:"items"`
	HasNext bool `json:"hasNext"`
}

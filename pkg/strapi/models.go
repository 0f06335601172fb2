package strapi

// Agreement is one source record from the CMS agreements collection, after
// the nested attributes envelope has been flattened. Timestamps are kept as
// the raw CMS strings; the migration mapper normalizes them.
type Agreement struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DocumentNumber string `json:"documentNumber"`
	Headquarter    string `json:"headquarter"`
	Role           string `json:"role"`
	Volunteering   bool   `json:"volunteeringAgreement"`
	Ethics         bool   `json:"ethicsAgreement"`
	Mailing        bool   `json:"mailingAgreement"`
	AgeVerified    bool   `json:"ageVerification"`
	SignatureRef   string `json:"signature"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

type meta struct {
	Pagination *pagination `json:"pagination"`
}

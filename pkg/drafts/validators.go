package drafts

import "mime/multipart"

// CascadeChangePayload is the request body for the country/state/genre change
// endpoints. The id arrives as text because it comes straight from a form
// select.
type CascadeChangePayload struct {
	ID string `json:"id" form:"id" validate:"required"`
}

// UpdateDraftPayload represents scalar field edits on the open draft. Nil
// fields are untouched. Ids arrive as text and are parsed at the boundary.
type UpdateDraftPayload struct {
	MemberName *string `json:"memberName" validate:"omitempty,max=100"`
	ContactNo  *string `json:"contactNo" validate:"omitempty,max=15"`
	Email      *string `json:"email"`
	Address    *string `json:"address"`
	CityID     *string `json:"cityId"`
	BookID     *string `json:"bookId"`
	BorrowDate *string `json:"borrowDate" validate:"omitempty,date"`
	ReturnDate *string `json:"returnDate" validate:"omitempty,date"`
	Status     *int    `json:"status" validate:"omitempty,oneof=0 1"`
}

// SubmitDraftPayload is the multipart form post that saves the draft. It
// carries the full field snapshot the form holds plus the optional
// identity-proof image in FormFiles under the "image" key.
type SubmitDraftPayload struct {
	MemberID      string `form:"memberId"`
	MemberName    string `form:"memberName"`
	ContactNo     string `form:"contactNo" validate:"omitempty,max=15"`
	IdentityProof string `form:"identityProof"`
	Address       string `form:"address"`
	CountryID     string `form:"countryId"`
	StateID       string `form:"stateId"`
	CityID        string `form:"cityId"`
	Email         string `form:"email"`
	BorrowDate    string `form:"borrowDate" validate:"omitempty,date"`
	ReturnDate    string `form:"returnDate" validate:"omitempty,date"`
	GenreID       string `form:"genreId"`
	BookID        string `form:"bookId"`
	Status        string `form:"status" validate:"omitempty,oneof=0 1"`

	FormFiles map[string]*multipart.FileHeader `form:"-"`
}

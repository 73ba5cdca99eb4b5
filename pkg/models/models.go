package models

// Borrow record status values used by the backend.
const (
	StatusReturned Status = 0
	StatusBorrowed Status = 1
)

// Status indicates whether a borrowed book is still out or has been returned.
type Status int

// BorrowRecord is the full borrow record as exchanged with the backend. A
// record with a zero MemberID has not been persisted yet; the backend assigns
// the id on insert.
type BorrowRecord struct {
	MemberID      ID     `json:"memberId"`
	MemberName    string `json:"memberName"`
	ContactNo     string `json:"contactNo"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	IdentityProof string `json:"identityProof"`
	CountryID     ID     `json:"countryId"`
	StateID       ID     `json:"stateId"`
	CityID        ID     `json:"cityId"`
	GenreID       ID     `json:"genreId"`
	BookID        ID     `json:"bookId"`
	BorrowDate    string `json:"borrowDate"`
	ReturnDate    string `json:"returnDate"`
	Status        Status `json:"status"`
}

// BorrowRow is one row of the server-side paginated list. The display fields
// (title, author, location, price) are denormalized by the backend; the
// client never computes them.
type BorrowRow struct {
	MemberID      ID     `json:"memberId"`
	Title         string `json:"title"`
	PublishedYear int    `json:"publishedYear"`
	AuthorName    string `json:"authorName"`
	GenreName     string `json:"genreName"`
	MemberName    string `json:"memberName"`
	IdentityProof string `json:"identityProof"`
	Location      string `json:"location"`
	BorrowDate    string `json:"borrowDate"`
	ReturnDate    string `json:"returnDate"`
	Status        Status `json:"status"`
	TotalPrice    float64 `json:"totalPrice"`
}

// LookupOption is one entry of a cascade select list (country, state, city,
// genre, book). AvailableCopies is only populated for book options.
type LookupOption struct {
	ID              ID     `json:"id"`
	Name            string `json:"name"`
	AvailableCopies int    `json:"availableCopies,omitempty"`
}

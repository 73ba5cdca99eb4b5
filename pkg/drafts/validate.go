package drafts

import (
	"regexp"
	"time"

	"github.com/borrowdesk/borrowdesk/pkg/libraryapi"
	"github.com/borrowdesk/borrowdesk/pkg/models"
	"github.com/gabriel-vasile/mimetype"
)

const minContactDigits = 10

var (
	digitsRE = regexp.MustCompile(`^\d+$`)
	emailRE  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var allowedImageTypes = []string{"image/jpeg", "image/png"}

// validateRecord evaluates every rule independently so all violations are
// reported together. The returned map is keyed by form field name.
func validateRecord(record *models.BorrowRecord, image *libraryapi.Image, maxUploadBytes int64) map[string]string {
	fieldErrs := map[string]string{}

	if record.MemberName == "" {
		fieldErrs["memberName"] = "Member Name is required."
	}

	switch {
	case record.ContactNo == "":
		fieldErrs["contactNo"] = "Contact Number is required."
	case len(record.ContactNo) < minContactDigits || !digitsRE.MatchString(record.ContactNo):
		fieldErrs["contactNo"] = "Contact No must be at least 10 digits long and numeric"
	}

	if record.Email == "" || !emailRE.MatchString(record.Email) {
		fieldErrs["email"] = "A valid Email is required."
	}

	if record.Address == "" {
		fieldErrs["address"] = "Address is required."
	}

	if record.CountryID.IsZero() {
		fieldErrs["countryId"] = "Country is required."
	}
	if record.StateID.IsZero() {
		fieldErrs["stateId"] = "State is required."
	}
	if record.CityID.IsZero() {
		fieldErrs["cityId"] = "City is required."
	}
	if record.GenreID.IsZero() {
		fieldErrs["genreId"] = "Genre is required."
	}
	if record.BookID.IsZero() {
		fieldErrs["bookId"] = "Book is required."
	}

	if msg := validateDates(record.BorrowDate, record.ReturnDate); msg != "" {
		fieldErrs["returnDate"] = msg
	}

	if image != nil {
		if msg := validateImage(image, maxUploadBytes); msg != "" {
			fieldErrs["image"] = msg
		}
	}

	return fieldErrs
}

// validateDates only fires when both dates parse; a blank or malformed date
// is handled by normalization, not validation.
func validateDates(borrowDate, returnDate string) string {
	borrow, err := time.Parse(dateLayout, borrowDate)
	if err != nil {
		return ""
	}
	ret, err := time.Parse(dateLayout, returnDate)
	if err != nil {
		return ""
	}
	if ret.Before(borrow) {
		return "Return Date should be the same day or later than the Borrow Date"
	}
	return ""
}

// validateImage sniffs the actual content rather than trusting the declared
// content type.
func validateImage(image *libraryapi.Image, maxUploadBytes int64) string {
	detected := mimetype.Detect(image.Data)
	allowed := false
	for _, t := range allowedImageTypes {
		if detected.Is(t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return "Only image files are allowed (.jpeg, .jpg, .png)."
	}
	if int64(len(image.Data)) > maxUploadBytes {
		return "File size should not exceed 5MB."
	}
	return ""
}

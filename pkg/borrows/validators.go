package borrows

// ListBorrowsQuery represents the query parameters for the borrow list. Nil
// fields leave the corresponding coordinator parameter untouched, so the
// browser only sends what the user changed.
type ListBorrowsQuery struct {
	Page     *int    `query:"page" validate:"omitempty,min=1"`
	PageSize *int    `query:"page_size" validate:"omitempty,min=1,max=100"`
	Sort     *string `query:"sort" validate:"omitempty,oneof=title publishedYear authorName genreName memberName location borrowDate returnDate status totalPrice"`
	Search   *string `query:"search" validate:"omitempty,max=200"`
}

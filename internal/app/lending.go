package app

import "librarydesk/pkg/domain"

// The lending state machine. A book cycles between available and
// borrowed within the scope of one library; the store's transaction is
// the isolation boundary, so the availability check and the loan-row
// insert cannot be observed half-done.

// Lend moves the book to borrowed for the given member and records the
// loan. Both book and member must be associated with the library.
func (a *App) Lend(libraryID, bookID, memberID uint) (domain.Book, error) {
	book, err := a.store.LendBook(libraryID, bookID, memberID, a.now())
	if err != nil {
		return domain.Book{}, mapLendingError(err)
	}
	return book, nil
}

// Return moves the book back to available and deletes the matching loan
// row. When no loan row matches (already-available book, or a member
// other than the borrower) the book fields are still cleared and the
// call succeeds; this is a reconciliation step, not an error.
func (a *App) Return(libraryID, bookID, memberID uint) (domain.Book, error) {
	book, err := a.store.ReturnBook(libraryID, bookID, memberID)
	if err != nil {
		return domain.Book{}, mapLendingError(err)
	}
	return book, nil
}

package store

import (
	"errors"
	"testing"
	"time"

	"librarydesk/pkg/domain"
)

func TestMemberIDsAreNeverReused(t *testing.T) {
	m := NewMemoryStore()
	first, err := m.CreateMember("ann")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if _, err := m.DeleteMember(first.ID); err != nil {
		t.Fatalf("delete member: %v", err)
	}
	second, err := m.CreateMember("bob")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("member id %d reused after deleting %d", second.ID, first.ID)
	}
}

func TestLendKeepsStatusAndLoanRowConsistent(t *testing.T) {
	m := NewMemoryStore()
	lib, _ := m.CreateLibrary("central", "pw")
	book, _ := m.CreateBookInLibrary(lib.ID, "Dune", "Herbert", "X1", "")
	member, _ := m.CreateMemberInLibrary(lib.ID, "ann")

	if _, _, err := m.ActiveLoan(book.ID); err != nil {
		t.Fatalf("active loan: %v", err)
	}
	if _, found, _ := m.ActiveLoan(book.ID); found {
		t.Fatalf("loan row exists before lending")
	}

	lent, err := m.LendBook(lib.ID, book.ID, member.ID, time.Now())
	if err != nil {
		t.Fatalf("lend: %v", err)
	}
	if lent.Status != domain.StatusBorrowed {
		t.Fatalf("status = %q, want borrowed", lent.Status)
	}
	if lent.LentTo == nil || *lent.LentTo != member.ID {
		t.Fatalf("lent_to = %v, want %d", lent.LentTo, member.ID)
	}
	if lent.LentDate == nil {
		t.Fatalf("lent_date not set")
	}
	loan, found, _ := m.ActiveLoan(book.ID)
	if !found {
		t.Fatalf("no loan row after lending")
	}
	if loan.MemberID != member.ID || loan.BookID != book.ID {
		t.Fatalf("loan row = %+v, want book %d member %d", loan, book.ID, member.ID)
	}

	returned, err := m.ReturnBook(lib.ID, book.ID, member.ID)
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if returned.Status != domain.StatusAvailable || returned.LentTo != nil || returned.LentDate != nil {
		t.Fatalf("book not cleared after return: %+v", returned)
	}
	if _, found, _ := m.ActiveLoan(book.ID); found {
		t.Fatalf("loan row survived the return")
	}
}

func TestLendFailsOutsideLibraryScope(t *testing.T) {
	m := NewMemoryStore()
	lib, _ := m.CreateLibrary("central", "pw")
	other, _ := m.CreateLibrary("branch", "pw")
	book, _ := m.CreateBookInLibrary(lib.ID, "Dune", "Herbert", "X1", "")
	stranger, _ := m.CreateMemberInLibrary(other.ID, "ann")

	if _, err := m.LendBook(lib.ID, book.ID, stranger.ID, time.Now()); !errors.Is(err, ErrNotInLibrary) {
		t.Fatalf("lend to non-member: err = %v, want ErrNotInLibrary", err)
	}
	if _, err := m.LendBook(other.ID, book.ID, stranger.ID, time.Now()); !errors.Is(err, ErrNotInLibrary) {
		t.Fatalf("lend of foreign book: err = %v, want ErrNotInLibrary", err)
	}
}

func TestDoubleLendLosesToFirstCommitter(t *testing.T) {
	m := NewMemoryStore()
	lib, _ := m.CreateLibrary("central", "pw")
	book, _ := m.CreateBookInLibrary(lib.ID, "Dune", "Herbert", "X1", "")
	ann, _ := m.CreateMemberInLibrary(lib.ID, "ann")
	bob, _ := m.CreateMemberInLibrary(lib.ID, "bob")

	if _, err := m.LendBook(lib.ID, book.ID, ann.ID, time.Now()); err != nil {
		t.Fatalf("first lend: %v", err)
	}
	if _, err := m.LendBook(lib.ID, book.ID, bob.ID, time.Now()); !errors.Is(err, ErrAlreadyBorrowed) {
		t.Fatalf("second lend: err = %v, want ErrAlreadyBorrowed", err)
	}
	loan, found, _ := m.ActiveLoan(book.ID)
	if !found || loan.MemberID != ann.ID {
		t.Fatalf("first lend's loan row disturbed: %+v found=%v", loan, found)
	}
}

func TestReturnWithoutLoanRowClearsFields(t *testing.T) {
	m := NewMemoryStore()
	lib, _ := m.CreateLibrary("central", "pw")
	book, _ := m.CreateBookInLibrary(lib.ID, "Dune", "Herbert", "X1", "")
	member, _ := m.CreateMemberInLibrary(lib.ID, "ann")

	returned, err := m.ReturnBook(lib.ID, book.ID, member.ID)
	if err != nil {
		t.Fatalf("return of available book: %v", err)
	}
	if returned.Status != domain.StatusAvailable || returned.LentTo != nil {
		t.Fatalf("fields not clear after reconciling return: %+v", returned)
	}
}

func TestDeleteBookCascades(t *testing.T) {
	m := NewMemoryStore()
	lib, _ := m.CreateLibrary("central", "pw")
	book, _ := m.CreateBookInLibrary(lib.ID, "Dune", "Herbert", "X1", "epub")
	member, _ := m.CreateMemberInLibrary(lib.ID, "ann")
	if _, err := m.LendBook(lib.ID, book.ID, member.ID, time.Now()); err != nil {
		t.Fatalf("lend: %v", err)
	}

	if _, err := m.DeleteBook(book.ID); err != nil {
		t.Fatalf("delete book: %v", err)
	}
	if _, found, _ := m.GetBook(book.ID); found {
		t.Fatalf("book still present")
	}
	if _, found, _ := m.GetEbook(book.ID); found {
		t.Fatalf("ebook extension survived book deletion")
	}
	if _, found, _ := m.ActiveLoan(book.ID); found {
		t.Fatalf("loan row survived book deletion")
	}
	books, _ := m.LibraryBooks(lib.ID)
	if len(books) != 0 {
		t.Fatalf("library still lists %d books", len(books))
	}
}

func TestRemoveMemberKeepsEntity(t *testing.T) {
	m := NewMemoryStore()
	lib, _ := m.CreateLibrary("central", "pw")
	member, _ := m.CreateMemberInLibrary(lib.ID, "ann")

	removed, err := m.RemoveMemberFromLibrary(lib.ID, member.ID)
	if err != nil || !removed {
		t.Fatalf("remove association: removed=%v err=%v", removed, err)
	}
	if _, found, _ := m.GetMember(member.ID); !found {
		t.Fatalf("member entity deleted along with association")
	}
	removed, err = m.RemoveMemberFromLibrary(lib.ID, member.ID)
	if err != nil || removed {
		t.Fatalf("second removal should be a no-op, removed=%v err=%v", removed, err)
	}
}

func TestDeleteLibraryLeavesBooksAndMembers(t *testing.T) {
	m := NewMemoryStore()
	lib, _ := m.CreateLibrary("central", "pw")
	book, _ := m.CreateBookInLibrary(lib.ID, "Dune", "Herbert", "X1", "")
	member, _ := m.CreateMemberInLibrary(lib.ID, "ann")

	if _, err := m.DeleteLibrary(lib.ID); err != nil {
		t.Fatalf("delete library: %v", err)
	}
	if _, found, _ := m.GetBook(book.ID); !found {
		t.Fatalf("book deleted with library")
	}
	if _, found, _ := m.GetMember(member.ID); !found {
		t.Fatalf("member deleted with library")
	}
}

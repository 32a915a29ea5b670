package app

import (
	"errors"
	"testing"

	"librarydesk/pkg/domain"
)

func TestAddMemberRequiresLibrary(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.AddMember(42, "Ann"); !errors.Is(err, ErrLibraryNotFound) {
		t.Fatalf("err = %v, want ErrLibraryNotFound", err)
	}
}

func TestRemoveMemberDetachesWithoutDeleting(t *testing.T) {
	a, _ := newTestApp(t)
	lib, _ := a.CreateLibrary("Central", "pw")
	member, err := a.AddMember(lib.ID, "Ann")
	if err != nil {
		t.Fatalf("add member: %v", err)
	}

	if err := a.RemoveMember(lib.ID, member.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	// The entity survives detachment and stays reachable globally.
	got, err := a.Member(member.ID)
	if err != nil {
		t.Fatalf("member gone after detach: %v", err)
	}
	if got.Name != "Ann" {
		t.Fatalf("member name = %q", got.Name)
	}
	// Detaching again reports the broken membership, not a 404.
	if err := a.RemoveMember(lib.ID, member.ID); !errors.Is(err, ErrNotLibraryMember) {
		t.Fatalf("second remove: err = %v, want ErrNotLibraryMember", err)
	}
}

func TestRemoveMemberMissingEntities(t *testing.T) {
	a, _ := newTestApp(t)
	lib, _ := a.CreateLibrary("Central", "pw")
	member, _ := a.AddMember(lib.ID, "Ann")

	if err := a.RemoveMember(lib.ID+1, member.ID); !errors.Is(err, ErrLibraryNotFound) {
		t.Fatalf("missing library: err = %v", err)
	}
	if err := a.RemoveMember(lib.ID, member.ID+1); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("missing member: err = %v", err)
	}
}

func TestListMembersOfEmptyLibrarySucceeds(t *testing.T) {
	a, _ := newTestApp(t)
	lib, _ := a.CreateLibrary("Central", "pw")
	members, err := a.Members(lib.ID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected empty list, got %d", len(members))
	}
}

func TestListBooksOfEmptyLibraryFails(t *testing.T) {
	a, _ := newTestApp(t)
	lib, _ := a.CreateLibrary("Central", "pw")
	// Books and members diverge here on purpose: zero books is an
	// error, zero members is not.
	if _, err := a.LibraryBooks(lib.ID); !errors.Is(err, ErrNoBooks) {
		t.Fatalf("err = %v, want ErrNoBooks", err)
	}
}

func TestAddBookWithFileFormatCreatesEbook(t *testing.T) {
	a, st := newTestApp(t)
	lib, _ := a.CreateLibrary("Central", "pw")
	book, err := a.AddBook(lib.ID, "Dune", "Herbert", "X1", "epub")
	if err != nil {
		t.Fatalf("add book: %v", err)
	}
	ebook, found, _ := st.GetEbook(book.ID)
	if !found {
		t.Fatalf("no ebook row created")
	}
	if ebook.FileFormat != "epub" {
		t.Fatalf("file format = %q", ebook.FileFormat)
	}
}

func TestRemoveBookDeletesEntity(t *testing.T) {
	a, _ := newTestApp(t)
	lib, _ := a.CreateLibrary("Central", "pw")
	book, _ := a.AddBook(lib.ID, "Dune", "Herbert", "X1", "epub")

	if err := a.RemoveBook(lib.ID, book.ID); err != nil {
		t.Fatalf("remove book: %v", err)
	}
	// Unlike member removal, the book is gone globally.
	if _, err := a.Book(book.ID); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("book should be deleted, err = %v", err)
	}
}

func TestRemoveBookOutsideLibraryIsNotFound(t *testing.T) {
	a, _ := newTestApp(t)
	lib, _ := a.CreateLibrary("Central", "pw")
	book, err := a.CreateBook("Dune", "Herbert", "X1", "")
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	// Global book exists but was never attached to the library.
	if err := a.RemoveBook(lib.ID, book.ID); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("err = %v, want ErrBookNotFound", err)
	}
}

func TestLibraryMemberScopedLookup(t *testing.T) {
	a, _ := newTestApp(t)
	lib, _ := a.CreateLibrary("Central", "pw")
	other, _ := a.CreateLibrary("Branch", "pw")
	member, _ := a.AddMember(lib.ID, "Ann")

	if _, err := a.LibraryMember(lib.ID, member.ID); err != nil {
		t.Fatalf("member in own library: %v", err)
	}
	if _, err := a.LibraryMember(other.ID, member.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("member visible in wrong library, err = %v", err)
	}
}

func TestUpdateBookPartialPatch(t *testing.T) {
	a, _ := newTestApp(t)
	book, _ := a.CreateBook("Dune", "Herbert", "X1", "")

	title := "Dune Messiah"
	updated, err := a.UpdateBook(book.ID, domain.BookPatch{Title: &title})
	if err != nil {
		t.Fatalf("update book: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title = %q", updated.Title)
	}
	if updated.Author != "Herbert" || updated.ISBN != "X1" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestLoginExactMatch(t *testing.T) {
	a, _ := newTestApp(t)
	lib, _ := a.CreateLibrary("Central", "secret")

	if _, err := a.Login(lib.ID, "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}
	got, err := a.Login(lib.ID, "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != lib.ID {
		t.Fatalf("library id = %d", got.ID)
	}
}

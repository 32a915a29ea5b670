package app

import (
	"fmt"

	"librarydesk/pkg/domain"
)

// Membership and catalog management: attaching members and books to a
// library and the global book/member records.

// AddMember creates a member and associates it with the library in one
// store transaction.
func (a *App) AddMember(libraryID uint, name string) (domain.Member, error) {
	if _, err := a.Library(libraryID); err != nil {
		return domain.Member{}, err
	}
	if name == "" {
		return domain.Member{}, ErrInvalidMemberName
	}
	member, err := a.store.CreateMemberInLibrary(libraryID, name)
	if err != nil {
		return domain.Member{}, fmt.Errorf("create member: %w", err)
	}
	return member, nil
}

// RemoveMember detaches the member from the library. The member entity
// itself is kept and stays retrievable by its global id.
func (a *App) RemoveMember(libraryID, memberID uint) error {
	if _, err := a.Library(libraryID); err != nil {
		return err
	}
	if _, err := a.Member(memberID); err != nil {
		return err
	}
	removed, err := a.store.RemoveMemberFromLibrary(libraryID, memberID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if !removed {
		return ErrNotLibraryMember
	}
	return nil
}

// Members lists a library's members. An empty library yields an empty
// list, not an error.
func (a *App) Members(libraryID uint) ([]domain.Member, error) {
	if _, err := a.Library(libraryID); err != nil {
		return nil, err
	}
	return a.store.LibraryMembers(libraryID)
}

// LibraryMember resolves a member within the library's scope.
func (a *App) LibraryMember(libraryID, memberID uint) (domain.Member, error) {
	if _, err := a.Library(libraryID); err != nil {
		return domain.Member{}, err
	}
	member, ok, err := a.store.MemberInLibrary(libraryID, memberID)
	if err != nil {
		return domain.Member{}, fmt.Errorf("member in library: %w", err)
	}
	if !ok {
		return domain.Member{}, ErrMemberNotFound
	}
	return member, nil
}

// AddBook creates a book (plus its ebook extension when fileFormat is
// set) and associates it with the library in one store transaction.
func (a *App) AddBook(libraryID uint, title, author, isbn, fileFormat string) (domain.Book, error) {
	if _, err := a.Library(libraryID); err != nil {
		return domain.Book{}, err
	}
	if title == "" || author == "" || isbn == "" {
		return domain.Book{}, ErrMissingBookFields
	}
	book, err := a.store.CreateBookInLibrary(libraryID, title, author, isbn, fileFormat)
	if err != nil {
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// LibraryBooks lists a library's books. Zero books is reported as
// ErrNoBooks, even for an id that matches no library; the route never
// checked library existence in the original service.
func (a *App) LibraryBooks(libraryID uint) ([]domain.Book, error) {
	books, err := a.store.LibraryBooks(libraryID)
	if err != nil {
		return nil, fmt.Errorf("library books: %w", err)
	}
	if len(books) == 0 {
		return nil, ErrNoBooks
	}
	return books, nil
}

// RemoveBook deletes a book addressed through the library. Unlike
// member removal this destroys the entity: the book, its ebook
// extension and any loan rows go together.
func (a *App) RemoveBook(libraryID, bookID uint) error {
	_, ok, err := a.store.BookInLibrary(libraryID, bookID)
	if err != nil {
		return fmt.Errorf("book in library: %w", err)
	}
	if !ok {
		return ErrBookNotFound
	}
	if _, err := a.store.DeleteBook(bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// --- global book records ---

func (a *App) Book(id uint) (domain.Book, error) {
	book, ok, err := a.store.GetBook(id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	if !ok {
		return domain.Book{}, ErrBookNotFound
	}
	return book, nil
}

func (a *App) CreateBook(title, author, isbn, fileFormat string) (domain.Book, error) {
	if title == "" || author == "" || isbn == "" {
		return domain.Book{}, ErrMissingBookFields
	}
	book, err := a.store.CreateBook(title, author, isbn, fileFormat)
	if err != nil {
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

func (a *App) UpdateBook(id uint, patch domain.BookPatch) (domain.Book, error) {
	book, ok, err := a.store.UpdateBook(id, patch)
	if err != nil {
		return domain.Book{}, fmt.Errorf("update book: %w", err)
	}
	if !ok {
		return domain.Book{}, ErrBookNotFound
	}
	return book, nil
}

// --- global member records ---

func (a *App) Member(id uint) (domain.Member, error) {
	member, ok, err := a.store.GetMember(id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("get member: %w", err)
	}
	if !ok {
		return domain.Member{}, ErrMemberNotFound
	}
	return member, nil
}

func (a *App) CreateMember(name string) (domain.Member, error) {
	if name == "" {
		return domain.Member{}, ErrInvalidMemberName
	}
	member, err := a.store.CreateMember(name)
	if err != nil {
		return domain.Member{}, fmt.Errorf("create member: %w", err)
	}
	return member, nil
}

func (a *App) UpdateMember(id uint, patch domain.MemberPatch) (domain.Member, error) {
	member, ok, err := a.store.UpdateMember(id, patch)
	if err != nil {
		return domain.Member{}, fmt.Errorf("update member: %w", err)
	}
	if !ok {
		return domain.Member{}, ErrMemberNotFound
	}
	return member, nil
}

func (a *App) DeleteMember(id uint) error {
	ok, err := a.store.DeleteMember(id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if !ok {
		return ErrMemberNotFound
	}
	return nil
}

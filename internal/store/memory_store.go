package store

import (
	"sync"
	"time"

	"librarydesk/pkg/domain"
)

// MemoryStore keeps all records in-process. It backs tests and mirrors
// the relational layout: entity maps plus association pair sets.
// Surrogate ids are monotonic and never reused after deletion.
type MemoryStore struct {
	mu sync.RWMutex

	libraries map[uint]domain.Library
	books     map[uint]domain.Book
	members   map[uint]domain.Member
	ebooks    map[uint]domain.Ebook        // keyed by book id
	loans     map[uint]domain.BorrowedBook // keyed by borrow id

	libraryBooks   map[uint]map[uint]bool // library id -> book ids
	libraryMembers map[uint]map[uint]bool // library id -> member ids

	libraryOrder []uint
	bookOrder    []uint
	memberOrder  []uint

	nextLibraryID uint
	nextBookID    uint
	nextMemberID  uint
	nextBorrowID  uint
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		libraries:      make(map[uint]domain.Library),
		books:          make(map[uint]domain.Book),
		members:        make(map[uint]domain.Member),
		ebooks:         make(map[uint]domain.Ebook),
		loans:          make(map[uint]domain.BorrowedBook),
		libraryBooks:   make(map[uint]map[uint]bool),
		libraryMembers: make(map[uint]map[uint]bool),
	}
}

// --- libraries ---

func (m *MemoryStore) CreateLibrary(name, password string) (domain.Library, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextLibraryID++
	lib := domain.Library{ID: m.nextLibraryID, Name: name, Password: password}
	m.libraries[lib.ID] = lib
	m.libraryOrder = append(m.libraryOrder, lib.ID)
	return lib, nil
}

func (m *MemoryStore) GetLibrary(id uint) (domain.Library, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lib, ok := m.libraries[id]
	return lib, ok, nil
}

func (m *MemoryStore) ListLibraries() ([]domain.Library, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Library, 0, len(m.libraryOrder))
	for _, id := range m.libraryOrder {
		if lib, ok := m.libraries[id]; ok {
			res = append(res, lib)
		}
	}
	return res, nil
}

func (m *MemoryStore) UpdateLibrary(id uint, patch domain.LibraryPatch) (domain.Library, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lib, ok := m.libraries[id]
	if !ok {
		return domain.Library{}, false, nil
	}
	if patch.Name != nil {
		lib.Name = *patch.Name
	}
	if patch.Password != nil {
		lib.Password = *patch.Password
	}
	m.libraries[id] = lib
	return lib, true, nil
}

func (m *MemoryStore) DeleteLibrary(id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.libraries[id]; !ok {
		return false, nil
	}
	delete(m.libraries, id)
	delete(m.libraryBooks, id)
	delete(m.libraryMembers, id)
	return true, nil
}

func (m *MemoryStore) FindLibraryByCredentials(id uint, password string) (domain.Library, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lib, ok := m.libraries[id]
	if !ok || lib.Password != password {
		return domain.Library{}, false, nil
	}
	return lib, true, nil
}

// --- books ---

func (m *MemoryStore) CreateBook(title, author, isbn, fileFormat string) (domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createBookLocked(title, author, isbn, fileFormat), nil
}

func (m *MemoryStore) CreateBookInLibrary(libraryID uint, title, author, isbn, fileFormat string) (domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book := m.createBookLocked(title, author, isbn, fileFormat)
	m.associateLocked(m.libraryBooks, libraryID, book.ID)
	return book, nil
}

func (m *MemoryStore) createBookLocked(title, author, isbn, fileFormat string) domain.Book {
	m.nextBookID++
	book := domain.Book{
		ID:     m.nextBookID,
		Title:  title,
		Author: author,
		ISBN:   isbn,
		Status: domain.StatusAvailable,
	}
	m.books[book.ID] = book
	m.bookOrder = append(m.bookOrder, book.ID)
	if fileFormat != "" {
		m.ebooks[book.ID] = domain.Ebook{BookID: book.ID, FileFormat: fileFormat}
	}
	return book
}

func (m *MemoryStore) GetBook(id uint) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	book, ok := m.books[id]
	return book, ok, nil
}

func (m *MemoryStore) UpdateBook(id uint, patch domain.BookPatch) (domain.Book, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return domain.Book{}, false, nil
	}
	if patch.Title != nil {
		book.Title = *patch.Title
	}
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.ISBN != nil {
		book.ISBN = *patch.ISBN
	}
	m.books[id] = book
	return book, true, nil
}

func (m *MemoryStore) DeleteBook(id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return false, nil
	}
	delete(m.books, id)
	delete(m.ebooks, id)
	for borrowID, loan := range m.loans {
		if loan.BookID == id {
			delete(m.loans, borrowID)
		}
	}
	for _, bookIDs := range m.libraryBooks {
		delete(bookIDs, id)
	}
	return true, nil
}

func (m *MemoryStore) GetEbook(bookID uint) (domain.Ebook, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ebook, ok := m.ebooks[bookID]
	return ebook, ok, nil
}

// --- members ---

func (m *MemoryStore) CreateMember(name string) (domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createMemberLocked(name), nil
}

func (m *MemoryStore) CreateMemberInLibrary(libraryID uint, name string) (domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	member := m.createMemberLocked(name)
	m.associateLocked(m.libraryMembers, libraryID, member.ID)
	return member, nil
}

func (m *MemoryStore) createMemberLocked(name string) domain.Member {
	m.nextMemberID++
	member := domain.Member{ID: m.nextMemberID, Name: name}
	m.members[member.ID] = member
	m.memberOrder = append(m.memberOrder, member.ID)
	return member
}

func (m *MemoryStore) GetMember(id uint) (domain.Member, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	member, ok := m.members[id]
	return member, ok, nil
}

func (m *MemoryStore) UpdateMember(id uint, patch domain.MemberPatch) (domain.Member, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.members[id]
	if !ok {
		return domain.Member{}, false, nil
	}
	if patch.Name != nil {
		member.Name = *patch.Name
	}
	m.members[id] = member
	return member, true, nil
}

func (m *MemoryStore) DeleteMember(id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[id]; !ok {
		return false, nil
	}
	delete(m.members, id)
	for _, memberIDs := range m.libraryMembers {
		delete(memberIDs, id)
	}
	return true, nil
}

// --- associations ---

func (m *MemoryStore) AddBookToLibrary(libraryID, bookID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.associateLocked(m.libraryBooks, libraryID, bookID)
	return nil
}

func (m *MemoryStore) AddMemberToLibrary(libraryID, memberID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.associateLocked(m.libraryMembers, libraryID, memberID)
	return nil
}

func (m *MemoryStore) associateLocked(index map[uint]map[uint]bool, libraryID, entityID uint) {
	set, ok := index[libraryID]
	if !ok {
		set = make(map[uint]bool)
		index[libraryID] = set
	}
	set[entityID] = true
}

func (m *MemoryStore) RemoveMemberFromLibrary(libraryID, memberID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.libraryMembers[libraryID]
	if !ok || !set[memberID] {
		return false, nil
	}
	delete(set, memberID)
	return true, nil
}

func (m *MemoryStore) LibraryBooks(libraryID uint) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.libraryBooks[libraryID]
	res := make([]domain.Book, 0, len(set))
	for _, id := range m.bookOrder {
		if set[id] {
			if book, ok := m.books[id]; ok {
				res = append(res, book)
			}
		}
	}
	return res, nil
}

func (m *MemoryStore) LibraryMembers(libraryID uint) ([]domain.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.libraryMembers[libraryID]
	res := make([]domain.Member, 0, len(set))
	for _, id := range m.memberOrder {
		if set[id] {
			if member, ok := m.members[id]; ok {
				res = append(res, member)
			}
		}
	}
	return res, nil
}

func (m *MemoryStore) BookInLibrary(libraryID, bookID uint) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	book, ok := m.bookInLibraryLocked(libraryID, bookID)
	return book, ok, nil
}

func (m *MemoryStore) bookInLibraryLocked(libraryID, bookID uint) (domain.Book, bool) {
	if set := m.libraryBooks[libraryID]; !set[bookID] {
		return domain.Book{}, false
	}
	book, ok := m.books[bookID]
	return book, ok
}

func (m *MemoryStore) MemberInLibrary(libraryID, memberID uint) (domain.Member, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	member, ok := m.memberInLibraryLocked(libraryID, memberID)
	return member, ok, nil
}

func (m *MemoryStore) memberInLibraryLocked(libraryID, memberID uint) (domain.Member, bool) {
	if set := m.libraryMembers[libraryID]; !set[memberID] {
		return domain.Member{}, false
	}
	member, ok := m.members[memberID]
	return member, ok
}

// --- lending ---

func (m *MemoryStore) LendBook(libraryID, bookID, memberID uint, at time.Time) (domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, bookOK := m.bookInLibraryLocked(libraryID, bookID)
	_, memberOK := m.memberInLibraryLocked(libraryID, memberID)
	if !bookOK || !memberOK {
		return domain.Book{}, ErrNotInLibrary
	}
	if book.Status == domain.StatusBorrowed {
		return domain.Book{}, ErrAlreadyBorrowed
	}

	lentDate := at
	book.Status = domain.StatusBorrowed
	book.LentTo = &memberID
	book.LentDate = &lentDate
	m.books[bookID] = book

	m.nextBorrowID++
	m.loans[m.nextBorrowID] = domain.BorrowedBook{
		ID:         m.nextBorrowID,
		MemberID:   memberID,
		BookID:     bookID,
		BorrowDate: at,
	}
	return book, nil
}

func (m *MemoryStore) ReturnBook(libraryID, bookID, memberID uint) (domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, bookOK := m.bookInLibraryLocked(libraryID, bookID)
	_, memberOK := m.memberInLibraryLocked(libraryID, memberID)
	if !bookOK || !memberOK {
		return domain.Book{}, ErrNotInLibrary
	}

	book.Status = domain.StatusAvailable
	book.LentTo = nil
	book.LentDate = nil
	m.books[bookID] = book

	for borrowID, loan := range m.loans {
		if loan.BookID == bookID && loan.MemberID == memberID {
			delete(m.loans, borrowID)
			break
		}
	}
	return book, nil
}

func (m *MemoryStore) ActiveLoan(bookID uint) (domain.BorrowedBook, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, loan := range m.loans {
		if loan.BookID == bookID {
			return loan, true, nil
		}
	}
	return domain.BorrowedBook{}, false, nil
}

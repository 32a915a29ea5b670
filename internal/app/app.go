package app

import (
	"errors"
	"fmt"
	"time"

	"librarydesk/internal/store"
	"librarydesk/pkg/domain"
)

// App is the core application service: library records, membership and
// catalog management, and the lending workflow on top of a Store.
type App struct {
	store store.Store
	now   func() time.Time
}

// New constructs the application over the given store.
func New(st store.Store) *App {
	return &App{
		store: st,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// --- libraries ---

func (a *App) Libraries() ([]domain.Library, error) {
	return a.store.ListLibraries()
}

func (a *App) Library(id uint) (domain.Library, error) {
	lib, ok, err := a.store.GetLibrary(id)
	if err != nil {
		return domain.Library{}, fmt.Errorf("get library: %w", err)
	}
	if !ok {
		return domain.Library{}, ErrLibraryNotFound
	}
	return lib, nil
}

func (a *App) CreateLibrary(name, password string) (domain.Library, error) {
	return a.store.CreateLibrary(name, password)
}

func (a *App) UpdateLibrary(id uint, patch domain.LibraryPatch) (domain.Library, error) {
	lib, ok, err := a.store.UpdateLibrary(id, patch)
	if err != nil {
		return domain.Library{}, fmt.Errorf("update library: %w", err)
	}
	if !ok {
		return domain.Library{}, ErrLibraryNotFound
	}
	return lib, nil
}

// DeleteLibrary removes the library record and its associations only;
// members and books it pointed at survive with their global ids.
func (a *App) DeleteLibrary(id uint) error {
	ok, err := a.store.DeleteLibrary(id)
	if err != nil {
		return fmt.Errorf("delete library: %w", err)
	}
	if !ok {
		return ErrLibraryNotFound
	}
	return nil
}

// Login compares the password against the stored one byte for byte.
// The legacy service stores plaintext passwords and this keeps its
// exact-match contract; see DESIGN.md for the security note.
func (a *App) Login(libraryID uint, password string) (domain.Library, error) {
	lib, ok, err := a.store.FindLibraryByCredentials(libraryID, password)
	if err != nil {
		return domain.Library{}, fmt.Errorf("login lookup: %w", err)
	}
	if !ok {
		return domain.Library{}, ErrBadCredentials
	}
	return lib, nil
}

func mapLendingError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotInLibrary):
		return ErrNotInLibrary
	case errors.Is(err, store.ErrAlreadyBorrowed):
		return ErrAlreadyBorrowed
	default:
		return err
	}
}

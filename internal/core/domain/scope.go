package domain

import "fmt"

// Scope identifies the isolation boundary for all persisted entities.
// Every document, chunk, embedding and graph element belongs to exactly
// one (folder, owner) pair and is never valid outside it.
type Scope struct {
	// FolderID identifies the folder the entity belongs to.
	FolderID string

	// OwnerID identifies the user that owns the folder.
	OwnerID string
}

// NewScope creates a scope from its two components.
func NewScope(folderID, ownerID string) Scope {
	return Scope{FolderID: folderID, OwnerID: ownerID}
}

// Validate returns ErrInvalidInput if either component is empty.
func (s Scope) Validate() error {
	if s.FolderID == "" {
		return fmt.Errorf("%w: scope folder id is empty", ErrInvalidInput)
	}
	if s.OwnerID == "" {
		return fmt.Errorf("%w: scope owner id is empty", ErrInvalidInput)
	}
	return nil
}

// IsZero reports whether the scope is entirely unset.
func (s Scope) IsZero() bool {
	return s.FolderID == "" && s.OwnerID == ""
}

// Key returns a stable map key for the scope.
func (s Scope) Key() string {
	return s.FolderID + "\x00" + s.OwnerID
}

// String renders the scope for logs and prompt delimiters.
func (s Scope) String() string {
	return fmt.Sprintf("folder=%s owner=%s", s.FolderID, s.OwnerID)
}

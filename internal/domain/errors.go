package domain

import "errors"

var (
	// ErrMalformedDocument is returned when a snapshot or bundled document fails structural validation.
	ErrMalformedDocument = errors.New("malformed quiz document")
	// ErrInvalidImport indicates an import payload is unparseable or lacks its top-level key.
	ErrInvalidImport = errors.New("invalid import")
	// ErrPersistenceWrite wraps failures of a durable snapshot save.
	ErrPersistenceWrite = errors.New("persistence write failed")
	// ErrSnapshotNotFound is returned by snapshot stores when the key is absent.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrConfirmationRequired guards bulk deletes that were not explicitly confirmed.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrNotEditing is returned by edit-session commands outside an edit session.
	ErrNotEditing = errors.New("edit mode is not active")
	// ErrEditing is returned by play commands while an edit session is open.
	ErrEditing = errors.New("edit mode is active")
)

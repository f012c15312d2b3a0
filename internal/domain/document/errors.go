package document

import "errors"

var (
	// ErrNoDocumentsIncluded indicates a run was requested with nothing selected.
	ErrNoDocumentsIncluded = errors.New("no documents included")
	// ErrDocumentNotFound indicates the folder or document doesn't exist in the tree.
	ErrDocumentNotFound = errors.New("document not found")
)

package jsondiff

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by Compare when either document is blank
	ErrEmptyInput = errors.New("both inputs required")
	// ErrTraversal wraps an unexpected fault raised while walking documents
	ErrTraversal = errors.New("diff traversal failed")
)

// Document identifies one side of a comparison
type Document int

const (
	// Base is the left-hand, original document
	Base Document = iota
	// Comparison is the right-hand document compared against Base
	Comparison
)

func (d Document) String() string {
	switch d {
	case Base:
		return "base"
	case Comparison:
		return "comparison"
	}
	return fmt.Sprintf("Document(%d)", int(d))
}

// ParseError reports a document that is not valid JSON
type ParseError struct {
	Doc Document
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s document: %s", e.Doc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

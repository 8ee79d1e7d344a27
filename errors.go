package mdpath

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	collectionReleasedCode = "COLLECTION_RELEASED"
	entryOwnedCode         = "ENTRY_OWNED"
	entryReleasedCode      = "ENTRY_RELEASED"
	generatorClosedCode    = "GENERATOR_CLOSED"
)

var (
	// ErrReleased is returned when a collection or entry is used after release
	ErrReleased = errors.New("mdpath: handle already released")
	// ErrEntryOwned is returned when releasing an entry that a live collection still owns
	ErrEntryOwned = errors.New("mdpath: entry is owned by a live collection")
	// ErrGeneratorClosed is returned by operations on a closed generator
	ErrGeneratorClosed = errors.New("mdpath: generator closed")
)

func collectionReleased(op string) error {
	return goerrors.Wrap(ErrReleased, goerrors.CategoryCommand, op+": collection released").
		WithTextCode(collectionReleasedCode)
}

func entryReleased(op string) error {
	return goerrors.Wrap(ErrReleased, goerrors.CategoryCommand, op+": entry released").
		WithTextCode(entryReleasedCode)
}

func entryOwned() error {
	return goerrors.Wrap(ErrEntryOwned, goerrors.CategoryValidation, "release entry: release the owning collection instead").
		WithTextCode(entryOwnedCode)
}

func generatorClosed(op string) error {
	return goerrors.Wrap(ErrGeneratorClosed, goerrors.CategoryCommand, op+": generator closed").
		WithTextCode(generatorClosedCode)
}

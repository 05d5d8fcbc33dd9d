package whitelist

import (
	"fmt"

	"github.com/HavenSelph/NamelessBot/types"
)

// ConflictError is returned by Add when an entry with the same
// case-insensitive username is already whitelisted
type ConflictError struct {
	Existing types.WhitelistEntry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("The minecraft account `%s` already exists in the whitelist!", e.Existing.MinecraftUsername)
}

// StoreError wraps a store operation that failed or was not acknowledged
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("Something went wrong (%s), please try again.", e.Op)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// TransientNetworkError wraps a failed network fetch inside a background
// pass. The pass aborts and the next scheduled tick retries independently
type TransientNetworkError struct {
	Op  string
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransientNetworkError) Unwrap() error {
	return e.Err
}

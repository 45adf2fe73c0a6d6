package skills

import "errors"

var (
	// ErrDictionaryNotFound is returned when the dictionary file does not exist.
	ErrDictionaryNotFound = errors.New("skill dictionary not found")

	// ErrInvalidDictionary is returned when the dictionary fails validation.
	ErrInvalidDictionary = errors.New("invalid skill dictionary")

	// ErrDuplicateSkill is returned when a canonical name or alias is declared twice.
	ErrDuplicateSkill = errors.New("duplicate canonical skill or alias")

	// ErrUnknownDomain is returned when a skill references an undeclared domain.
	ErrUnknownDomain = errors.New("skill references unknown domain")

	// ErrDictionaryRequired is returned when a dictionary is not provided.
	ErrDictionaryRequired = errors.New("skill dictionary required")
)

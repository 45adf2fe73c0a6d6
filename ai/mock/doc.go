// Package mock provides deterministic test doubles for the ai package
// interfaces. The mock embedder derives unit vectors from an FNV hash of the
// input text, so identical text always embeds identically; the mock reasoner
// scores candidates by plain skill overlap. Both support behavior injection
// through function fields.
package mock

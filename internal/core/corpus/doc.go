// Package corpus turns the flat-text treaty corpus into records and chunks.
//
// Parsing and chunking are pure functions over strings so they can be
// tested without touching the file system or any AI service.
//
// The expected input shape is:
//
//	Section Historical Treaties
//	Treaty of Example: Adopted January 1, 1990, entered into force January 1, 1991; Parties: 50; Description: ...
//
// Lines that do not fit are skipped; the ParseReport says how many.
package corpus

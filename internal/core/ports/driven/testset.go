package driven

import "github.com/custodia-labs/treatyrag/internal/core/domain"

// TestSetLoader reads evaluation questions from storage.
type TestSetLoader interface {
	// Load returns the test cases at path.
	Load(path string) ([]domain.TestCase, error)
}

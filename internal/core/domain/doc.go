// Package domain defines the core business entities for treatyrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TreatyRecord: One parsed entry of the treaty corpus
//   - Chunk: A searchable unit derived from a record
//   - RetrievalQuery: A crisis scenario to retrieve treaties for
//   - RetrievedDocument: A scored chunk returned by the retriever
//   - EvaluationReport: RAGAS-style quality metrics for retrieval
//   - Briefing: The assembled policy briefing
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

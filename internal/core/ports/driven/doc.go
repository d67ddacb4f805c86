// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ConfigStore: Application configuration
//   - VectorIndex: Vector storage and nearest-neighbour search
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, retrieval is keyword-only.
//   - LLMService: Language model completions. Without it, reranking is skipped,
//     evaluation reports fallback scores and briefings use fixed text.
//   - EmbeddingCache: Persists chunk embeddings between runs.
//   - PromptStore: Customisable prompt templates.
//   - TestSetLoader: File-based evaluation questions.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

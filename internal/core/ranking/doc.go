// Package ranking holds the pure scoring functions used by retrieval:
// cosine similarity, BM25, linear and reciprocal rank fusion, rule-table
// relevance boosts, the country participation classifier and the parser
// for LLM rerank responses.
//
// Nothing in this package performs I/O.
package ranking

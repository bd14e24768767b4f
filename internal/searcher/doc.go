// Package searcher implements hybrid retrieval over the documentation
// indexes: deterministic keyword scoring with heading boosts and domain
// term bonuses, plus an optional semantic path backed by an embedding
// provider and a vector store. Semantic failures fall back to keyword
// transparently, so a search call never fails because a network
// dependency did.
package searcher

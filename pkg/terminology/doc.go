// Package terminology resolves free-text biomedical terms against the UMLS
// Metathesaurus REST API.
//
// The Resolver interface is the contract the query builder and orchestrator
// consume. The UMLS implementation scores search results by string similarity
// combined with result rank, filters candidates to the semantic types relevant
// to neurovascular research, and enriches matches with MeSH terms for PubMed
// query construction. Decorators add a badger-backed response cache and a
// circuit breaker around the remote API.
package terminology

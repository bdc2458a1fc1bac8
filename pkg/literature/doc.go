// Package literature searches bibliographic indexes for evidence records.
// The PubMed client speaks the NCBI E-utilities JSON API (esearch for PMIDs,
// esummary for article metadata) under the documented rate limits.
package literature

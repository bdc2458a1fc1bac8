// Package expand drives graph growth. Each cycle selects frontier nodes,
// builds literature queries for them, fetches evidence concurrently, and
// admits candidate nodes and edges into the store under its depth, capacity
// and evidence constraints. Fetches fan out to a bounded worker pool and
// join before admission, so admission order follows frontier order and the
// resulting graph is deterministic for fixed collaborator responses.
package expand

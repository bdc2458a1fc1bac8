// Package query turns free-text questions into boolean literature-search
// expressions. Multi-word spans are resolved against a controlled vocabulary
// so that, for example, "intracranial aneurysm rupture" searches the MeSH
// heading rather than three loose keywords; unresolved spans degrade to
// literal phrase terms.
package query

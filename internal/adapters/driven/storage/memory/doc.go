// Package memory provides an in-memory implementation of the document store.
// It is used by tests and when DOCUMENT_STORE_URL=memory. Data is lost on exit.
package memory

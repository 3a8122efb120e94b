// Package extractors provides implementations of the Extractor interface
// for the supported upload formats. Each extractor knows how to turn the
// bytes of one file format into plain text.
//
// Extractors are registered with the Registry at startup.
package extractors

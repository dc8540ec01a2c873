// Package textutil implements utilities for handling human-readable text.
//
// This package includes a combination of low-level and high-level utilities.
// The main high-level utilities are:
//   PrefixWriter:      Add prefix to output.
//   PrefixLineWriter:  Add prefix to output, line buffered.
//   ByteReplaceWriter: Replace single byte with bytes in output.
package textutil

// Package encoding provides low-level encoding and decoding algorithms used
// by the metadata export path (§4.5 export_metadata, §9.1 of the design).
//
// # Overview
//
// Scope names, variable names, and enum-entry names are all variable-length
// UTF-8 strings. This package encodes them compactly with a length-prefixed
// format so the metadata registry can serialize a whole scope/variable tree
// to a flat byte slice. Decoding allocates one Go string per entry.
//
// # VarString Encoding
//
// Each string is stored as:
//   - 1 byte: length (0-255)
//   - N bytes: UTF-8 data
//
// A 255-byte cap keeps the length field single-byte; scope and variable
// names are short identifiers, not user-facing prose, so the cap is not a
// practical limitation.
//
//	enc := encoding.NewVarStringEncoder(endian.GetLittleEndianEngine())
//	_ = enc.Write("top")
//	_ = enc.Write("core")
//	data := enc.Bytes()
//
// Decoding walks the same buffer with VarStringDecoder, which yields the
// original strings in write order.
//
// # Thread Safety
//
// Encoders and decoders are not thread-safe; each metadata export call uses
// its own encoder and the caller does not share it across goroutines.
package encoding

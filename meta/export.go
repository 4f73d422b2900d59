package meta

import (
	"fmt"
	"sort"

	"github.com/lachlansneff/ligeia/compress"
	"github.com/lachlansneff/ligeia/encoding"
	"github.com/lachlansneff/ligeia/endian"
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/logic"
)

// ExportMetadata serializes the scope tree, variable table, and enum
// tables to a compact byte form, compressed with the caller's choice of
// codec (§4.5, §9.1's supplement). This is a transient, in-memory-to-bytes
// convenience for single-process handoff to a separate renderer, not a
// durable format: there is no version negotiation, and the one-byte codec
// tag prefixing the payload only round-trips within the same build.
func (r *Registry) ExportMetadata(compressionType format.CompressionType) ([]byte, error) {
	enc := encoding.NewVarStringEncoder(endian.GetLittleEndianEngine())
	defer enc.Reset()

	scopeIDs := make([]uint32, 0, len(r.scopes))
	for id := range r.scopes {
		scopeIDs = append(scopeIDs, id)
	}
	sort.Slice(scopeIDs, func(i, j int) bool { return scopeIDs[i] < scopeIDs[j] })

	enc.WriteVarint(int64(len(scopeIDs)))
	for _, id := range scopeIDs {
		s := r.scopes[id]
		enc.WriteVarint(int64(s.ID))
		enc.WriteVarint(int64(s.ParentID))
		if err := enc.Write(s.Name); err != nil {
			return nil, fmt.Errorf("meta: export scope %d: %w", id, err)
		}
	}

	var allVars []*Variable
	for _, id := range scopeIDs {
		allVars = append(allVars, r.variables[id]...)
	}

	enc.WriteVarint(int64(len(allVars)))
	for _, v := range allVars {
		if err := writeVariable(enc, v); err != nil {
			return nil, err
		}
	}

	codec, err := compress.GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	compressed, err := codec.Compress(enc.Bytes())
	if err != nil {
		return nil, fmt.Errorf("meta: compress export payload: %w", err)
	}

	out := make([]byte, 0, len(compressed)+1)
	out = append(out, byte(compressionType))
	out = append(out, compressed...)

	return out, nil
}

func writeVariable(enc *encoding.VarStringEncoder, v *Variable) error {
	enc.WriteVarint(int64(v.ScopeID))
	if err := enc.Write(v.Name); err != nil {
		return fmt.Errorf("meta: export variable %q: %w", v.Name, err)
	}

	enc.WriteVarint(int64(v.Interpretation.Kind))

	switch v.Interpretation.Kind {
	case InterpretationNone:
		// no further fields
	case InterpretationInteger:
		enc.WriteVarint(int64(len(v.Interpretation.SignalIDs)))
		for _, sid := range v.Interpretation.SignalIDs {
			enc.WriteVarint(int64(sid))
		}
		enc.WriteVarint(int64(v.Interpretation.MSB))
		enc.WriteVarint(int64(v.Interpretation.LSB))
		enc.WriteVarint(int64(v.Interpretation.Signedness))
	case InterpretationEnum:
		enc.WriteVarint(int64(v.Interpretation.SignalID))
		enc.WriteVarint(int64(len(v.Interpretation.Entries)))
		for _, e := range v.Interpretation.Entries {
			if err := enc.Write(e.Name); err != nil {
				return fmt.Errorf("meta: export enum entry %q: %w", e.Name, err)
			}
			enc.WriteVarint(int64(e.Value.Variant()))
			enc.WriteVarint(int64(e.Value.Width()))
			if err := enc.Write(string(e.Value.Bytes())); err != nil {
				return fmt.Errorf("meta: export enum entry %q value: %w", e.Name, err)
			}
		}
	case InterpretationUtf8:
		enc.WriteVarint(int64(v.Interpretation.SignalID))
	}

	return nil
}

// DecodeMetadata is ExportMetadata's inverse: it rebuilds the scope and
// variable tables from a previously exported payload. It exists
// alongside ExportMetadata so the export path can be round-trip tested
// against every registered codec; a renderer process consuming the
// export would implement the equivalent decode on its own side.
func DecodeMetadata(data []byte) ([]Scope, []*Variable, error) {
	if len(data) < 1 {
		return nil, nil, fmt.Errorf("meta: empty export payload")
	}

	compressionType := format.CompressionType(data[0])
	codec, err := compress.GetCodec(compressionType)
	if err != nil {
		return nil, nil, err
	}

	payload, err := codec.Decompress(data[1:])
	if err != nil {
		return nil, nil, fmt.Errorf("meta: decompress export payload: %w", err)
	}

	dec := encoding.NewVarStringDecoder(payload)

	scopeCount, err := dec.ReadVarint()
	if err != nil {
		return nil, nil, fmt.Errorf("meta: read scope count: %w", err)
	}

	scopes := make([]Scope, 0, scopeCount)
	for i := int64(0); i < scopeCount; i++ {
		id, err := dec.ReadVarint()
		if err != nil {
			return nil, nil, fmt.Errorf("meta: read scope id: %w", err)
		}
		parentID, err := dec.ReadVarint()
		if err != nil {
			return nil, nil, fmt.Errorf("meta: read scope parent id: %w", err)
		}
		name, ok, err := dec.Next()
		if err != nil {
			return nil, nil, fmt.Errorf("meta: read scope name: %w", err)
		}
		if !ok {
			return nil, nil, fmt.Errorf("meta: truncated scope table")
		}

		scopes = append(scopes, Scope{ID: uint32(id), ParentID: uint32(parentID), Name: name})
	}

	varCount, err := dec.ReadVarint()
	if err != nil {
		return nil, nil, fmt.Errorf("meta: read variable count: %w", err)
	}

	variables := make([]*Variable, 0, varCount)
	for i := int64(0); i < varCount; i++ {
		v, err := readVariable(dec)
		if err != nil {
			return nil, nil, err
		}
		variables = append(variables, v)
	}

	return scopes, variables, nil
}

func readVariable(dec *encoding.VarStringDecoder) (*Variable, error) {
	scopeID, err := dec.ReadVarint()
	if err != nil {
		return nil, fmt.Errorf("meta: read variable scope id: %w", err)
	}

	name, ok, err := dec.Next()
	if err != nil {
		return nil, fmt.Errorf("meta: read variable name: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("meta: truncated variable table")
	}

	kind, err := dec.ReadVarint()
	if err != nil {
		return nil, fmt.Errorf("meta: read interpretation kind: %w", err)
	}

	v := &Variable{ScopeID: uint32(scopeID), Name: name}

	switch InterpretationKind(kind) {
	case InterpretationNone:
		v.Interpretation = None()
	case InterpretationInteger:
		count, err := dec.ReadVarint()
		if err != nil {
			return nil, fmt.Errorf("meta: read integer signal count: %w", err)
		}
		signalIDs := make([]uint32, 0, count)
		for i := int64(0); i < count; i++ {
			sid, err := dec.ReadVarint()
			if err != nil {
				return nil, fmt.Errorf("meta: read integer signal id: %w", err)
			}
			signalIDs = append(signalIDs, uint32(sid))
		}
		msb, err := dec.ReadVarint()
		if err != nil {
			return nil, fmt.Errorf("meta: read integer msb: %w", err)
		}
		lsb, err := dec.ReadVarint()
		if err != nil {
			return nil, fmt.Errorf("meta: read integer lsb: %w", err)
		}
		signedness, err := dec.ReadVarint()
		if err != nil {
			return nil, fmt.Errorf("meta: read integer signedness: %w", err)
		}
		v.Interpretation = Integer(signalIDs, uint32(msb), uint32(lsb), Signedness(signedness))
	case InterpretationEnum:
		signalID, err := dec.ReadVarint()
		if err != nil {
			return nil, fmt.Errorf("meta: read enum signal id: %w", err)
		}
		entryCount, err := dec.ReadVarint()
		if err != nil {
			return nil, fmt.Errorf("meta: read enum entry count: %w", err)
		}

		entries := make([]EnumEntry, 0, entryCount)
		for i := int64(0); i < entryCount; i++ {
			entryName, ok, err := dec.Next()
			if err != nil {
				return nil, fmt.Errorf("meta: read enum entry name: %w", err)
			}
			if !ok {
				return nil, fmt.Errorf("meta: truncated enum entry table")
			}
			variant, err := dec.ReadVarint()
			if err != nil {
				return nil, fmt.Errorf("meta: read enum entry variant: %w", err)
			}
			width, err := dec.ReadVarint()
			if err != nil {
				return nil, fmt.Errorf("meta: read enum entry width: %w", err)
			}
			valueBytes, ok, err := dec.Next()
			if err != nil {
				return nil, fmt.Errorf("meta: read enum entry value: %w", err)
			}
			if !ok {
				return nil, fmt.Errorf("meta: truncated enum entry value")
			}

			arr := logic.NewArray(format.LogicVariant(variant), int(width), 0)
			arr.CopyFrom(logic.NewSlice(format.LogicVariant(variant), int(width), []byte(valueBytes)))
			entries = append(entries, EnumEntry{Name: entryName, Value: arr})
		}

		v.Interpretation = Enum(uint32(signalID), entries)
	case InterpretationUtf8:
		signalID, err := dec.ReadVarint()
		if err != nil {
			return nil, fmt.Errorf("meta: read utf8 signal id: %w", err)
		}
		v.Interpretation = Utf8(uint32(signalID))
	}

	return v, nil
}

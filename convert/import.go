//go:build !ios && !android && (amd64 || arm64)

package convert

import (
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"

	"github.com/obinnaokechukwu/arrowcdata/cdata"
	"github.com/obinnaokechukwu/arrowcdata/format"
)

// ErrNotPopulated is returned when importing from a structure whose release
// callback is unset. An unpopulated structure carries no type.
var ErrNotPopulated = errors.New("convert: structure has not been populated")

// ImportSchema reads a populated top-level structure into an arrow-go schema.
// The top level must be a struct; its children become the schema's fields and
// its metadata the schema-level metadata. Ownership stays with the producer.
func ImportSchema(s *cdata.Schema) (*arrow.Schema, error) {
	f, err := ImportField(s)
	if err != nil {
		return nil, err
	}
	st, ok := f.Type.(*arrow.StructType)
	if !ok {
		return nil, fmt.Errorf("convert: top-level schema is %s, not a struct", f.Type)
	}
	md := f.Metadata
	return arrow.NewSchema(st.Fields(), &md), nil
}

// ImportField reads a populated structure into an arrow-go field, descending
// through children and the dictionary. The structure is only read; its
// release callback is never invoked.
func ImportField(s *cdata.Schema) (arrow.Field, error) {
	if s == nil {
		return arrow.Field{}, errors.New("convert: nil structure")
	}
	if s.Released() {
		return arrow.Field{}, ErrNotPopulated
	}

	info, err := format.Parse(s.FormatString())
	if err != nil {
		return arrow.Field{}, err
	}

	children := make([]arrow.Field, s.NChildren)
	for i := range children {
		c := s.Child(i)
		if c == nil {
			return arrow.Field{}, fmt.Errorf("convert: missing child %d", i)
		}
		children[i], err = ImportField(c)
		if err != nil {
			return arrow.Field{}, err
		}
	}

	dt, err := dataTypeFor(info, children, s)
	if err != nil {
		return arrow.Field{}, err
	}

	if s.Dictionary != nil {
		idx, ok := dt.(arrow.FixedWidthDataType)
		if !ok {
			return arrow.Field{}, fmt.Errorf("convert: dictionary index type %s is not fixed-width", dt)
		}
		value, err := ImportField(s.Dictionary)
		if err != nil {
			return arrow.Field{}, err
		}
		dt = &arrow.DictionaryType{
			IndexType: idx,
			ValueType: value.Type,
			Ordered:   s.DictionaryOrdered(),
		}
	}

	pairs, err := s.MetadataPairs()
	if err != nil {
		return arrow.Field{}, err
	}
	var md arrow.Metadata
	if len(pairs) > 0 {
		keys := make([]string, len(pairs))
		vals := make([]string, len(pairs))
		for i, kv := range pairs {
			keys[i] = kv.Key
			vals[i] = kv.Value
		}
		md = arrow.NewMetadata(keys, vals)
	}

	return arrow.Field{
		Name:     s.NameString(),
		Type:     dt,
		Nullable: s.Nullable(),
		Metadata: md,
	}, nil
}

func arrowUnit(u format.TimeUnit) arrow.TimeUnit {
	switch u {
	case format.Second:
		return arrow.Second
	case format.Millisecond:
		return arrow.Millisecond
	case format.Microsecond:
		return arrow.Microsecond
	}
	return arrow.Nanosecond
}

func dataTypeFor(info format.Info, children []arrow.Field, s *cdata.Schema) (arrow.DataType, error) {
	switch info.Type {
	case format.Null:
		return arrow.Null, nil
	case format.Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case format.Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case format.Uint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case format.Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case format.Uint16:
		return arrow.PrimitiveTypes.Uint16, nil
	case format.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case format.Uint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case format.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case format.Uint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case format.Float16:
		return arrow.FixedWidthTypes.Float16, nil
	case format.Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case format.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case format.String:
		return arrow.BinaryTypes.String, nil
	case format.LargeString:
		return arrow.BinaryTypes.LargeString, nil
	case format.Binary:
		return arrow.BinaryTypes.Binary, nil
	case format.LargeBinary:
		return arrow.BinaryTypes.LargeBinary, nil
	case format.FixedSizeBinary:
		return &arrow.FixedSizeBinaryType{ByteWidth: info.ByteWidth}, nil
	case format.Date32:
		return arrow.FixedWidthTypes.Date32, nil
	case format.Date64:
		return arrow.FixedWidthTypes.Date64, nil
	case format.Time32:
		return &arrow.Time32Type{Unit: arrowUnit(info.Unit)}, nil
	case format.Time64:
		return &arrow.Time64Type{Unit: arrowUnit(info.Unit)}, nil
	case format.Timestamp:
		return &arrow.TimestampType{Unit: arrowUnit(info.Unit), TimeZone: info.Timezone}, nil
	case format.Duration:
		return &arrow.DurationType{Unit: arrowUnit(info.Unit)}, nil
	case format.IntervalMonths:
		return arrow.FixedWidthTypes.MonthInterval, nil
	case format.IntervalDayTime:
		return arrow.FixedWidthTypes.DayTimeInterval, nil
	case format.IntervalMonthDayNano:
		return arrow.FixedWidthTypes.MonthDayNanoInterval, nil
	case format.Decimal:
		switch info.DecimalBits {
		case 0, 128:
			return &arrow.Decimal128Type{Precision: int32(info.Precision), Scale: int32(info.Scale)}, nil
		case 256:
			return &arrow.Decimal256Type{Precision: int32(info.Precision), Scale: int32(info.Scale)}, nil
		}
		return nil, &UnsupportedFormatError{Format: s.FormatString()}
	case format.Struct:
		return arrow.StructOf(children...), nil
	case format.List:
		if len(children) != 1 {
			return nil, fmt.Errorf("convert: list needs one child, got %d", len(children))
		}
		return arrow.ListOfField(children[0]), nil
	case format.LargeList:
		if len(children) != 1 {
			return nil, fmt.Errorf("convert: large list needs one child, got %d", len(children))
		}
		return arrow.LargeListOfField(children[0]), nil
	case format.FixedSizeList:
		if len(children) != 1 {
			return nil, fmt.Errorf("convert: fixed-size list needs one child, got %d", len(children))
		}
		return arrow.FixedSizeListOfField(int32(info.ListSize), children[0]), nil
	case format.Map:
		if len(children) != 1 {
			return nil, fmt.Errorf("convert: map needs one child, got %d", len(children))
		}
		entries, ok := children[0].Type.(*arrow.StructType)
		if !ok || entries.NumFields() != 2 {
			return nil, fmt.Errorf("convert: map entries must be a two-field struct, got %s", children[0].Type)
		}
		m := arrow.MapOf(entries.Field(0).Type, entries.Field(1).Type)
		m.KeysSorted = s.MapKeysSorted()
		return m, nil
	}
	return nil, &UnsupportedFormatError{Format: s.FormatString()}
}

//go:build !ios && !android && (amd64 || arm64)

// Package convert moves schemas between arrow-go types and the C data
// interface structures, so pure-Go producers and consumers can sit on either
// side of an exported address.
//
// Export populates a caller-owned cdata.Schema from an arrow-go field or
// schema. Every string, child and metadata block lives on the Go heap,
// rooted in the handles registry through the structure's private_data; the
// installed release callback is Go-backed, frees exactly that state, and
// satisfies the interface's single-release contract even when the structure
// has been shallow-copied into foreign memory.
//
// Import reads a populated structure into arrow-go types. It never takes
// ownership: the structure's release callback is left untouched.
package convert

import (
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
)

// UnsupportedTypeError reports an arrow-go type this package cannot spell as
// a format string.
type UnsupportedTypeError struct {
	Type arrow.DataType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("convert: unsupported data type %s", e.Type)
}

// UnsupportedFormatError reports a format string this package cannot turn
// into an arrow-go type.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("convert: unsupported format %q", e.Format)
}

func timeUnitChar(u arrow.TimeUnit) (string, error) {
	switch u {
	case arrow.Second:
		return "s", nil
	case arrow.Millisecond:
		return "m", nil
	case arrow.Microsecond:
		return "u", nil
	case arrow.Nanosecond:
		return "n", nil
	}
	return "", fmt.Errorf("convert: unknown time unit %d", u)
}

// formatFor spells dt as a C data interface format string.
// Dictionary types are spelled as their index type; the value type travels
// in the dictionary member of the exported structure.
func formatFor(dt arrow.DataType) (string, error) {
	switch dt.ID() {
	case arrow.NULL:
		return "n", nil
	case arrow.BOOL:
		return "b", nil
	case arrow.INT8:
		return "c", nil
	case arrow.UINT8:
		return "C", nil
	case arrow.INT16:
		return "s", nil
	case arrow.UINT16:
		return "S", nil
	case arrow.INT32:
		return "i", nil
	case arrow.UINT32:
		return "I", nil
	case arrow.INT64:
		return "l", nil
	case arrow.UINT64:
		return "L", nil
	case arrow.FLOAT16:
		return "e", nil
	case arrow.FLOAT32:
		return "f", nil
	case arrow.FLOAT64:
		return "g", nil
	case arrow.STRING:
		return "u", nil
	case arrow.LARGE_STRING:
		return "U", nil
	case arrow.BINARY:
		return "z", nil
	case arrow.LARGE_BINARY:
		return "Z", nil
	case arrow.FIXED_SIZE_BINARY:
		return fmt.Sprintf("w:%d", dt.(*arrow.FixedSizeBinaryType).ByteWidth), nil
	case arrow.DECIMAL128:
		d := dt.(*arrow.Decimal128Type)
		return fmt.Sprintf("d:%d,%d", d.Precision, d.Scale), nil
	case arrow.DECIMAL256:
		d := dt.(*arrow.Decimal256Type)
		return fmt.Sprintf("d:%d,%d,256", d.Precision, d.Scale), nil
	case arrow.DATE32:
		return "tdD", nil
	case arrow.DATE64:
		return "tdm", nil
	case arrow.TIME32:
		c, err := timeUnitChar(dt.(*arrow.Time32Type).Unit)
		if err != nil {
			return "", err
		}
		return "tt" + c, nil
	case arrow.TIME64:
		c, err := timeUnitChar(dt.(*arrow.Time64Type).Unit)
		if err != nil {
			return "", err
		}
		return "tt" + c, nil
	case arrow.TIMESTAMP:
		t := dt.(*arrow.TimestampType)
		c, err := timeUnitChar(t.Unit)
		if err != nil {
			return "", err
		}
		return "ts" + c + ":" + t.TimeZone, nil
	case arrow.DURATION:
		c, err := timeUnitChar(dt.(*arrow.DurationType).Unit)
		if err != nil {
			return "", err
		}
		return "tD" + c, nil
	case arrow.INTERVAL_MONTHS:
		return "tiM", nil
	case arrow.INTERVAL_DAY_TIME:
		return "tiD", nil
	case arrow.INTERVAL_MONTH_DAY_NANO:
		return "tin", nil
	case arrow.STRUCT:
		return "+s", nil
	case arrow.LIST:
		return "+l", nil
	case arrow.LARGE_LIST:
		return "+L", nil
	case arrow.FIXED_SIZE_LIST:
		return fmt.Sprintf("+w:%d", dt.(*arrow.FixedSizeListType).Len()), nil
	case arrow.MAP:
		return "+m", nil
	case arrow.DICTIONARY:
		return formatFor(dt.(*arrow.DictionaryType).IndexType)
	}
	return "", &UnsupportedTypeError{Type: dt}
}

// childFields returns the child fields an exported structure must carry for
// dt, in order.
func childFields(dt arrow.DataType) []arrow.Field {
	switch t := dt.(type) {
	case *arrow.StructType:
		return t.Fields()
	case *arrow.ListType:
		return []arrow.Field{t.ElemField()}
	case *arrow.LargeListType:
		return []arrow.Field{t.ElemField()}
	case *arrow.FixedSizeListType:
		return []arrow.Field{t.ElemField()}
	case *arrow.MapType:
		return []arrow.Field{t.ElemField()}
	case *arrow.DictionaryType:
		return childFields(t.IndexType)
	}
	return nil
}

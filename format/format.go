// Package format parses and builds Arrow C data interface format strings,
// the compact text encoding a schema structure uses to describe its logical
// type ("i" for int32, "+s" for struct, "tsu:UTC" for a microsecond
// timestamp, and so on).
//
// The package is a vocabulary, not a validator: consumers of foreign-written
// schemas use it to interpret the format field, and producers use it to spell
// types correctly. It deliberately knows nothing about the structures that
// carry the strings.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Type identifies a logical Arrow type.
type Type int

const (
	Null Type = iota
	Bool
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float16
	Float32
	Float64
	String
	LargeString
	Binary
	LargeBinary
	FixedSizeBinary
	Date32
	Date64
	Time32
	Time64
	Timestamp
	Duration
	IntervalMonths
	IntervalDayTime
	IntervalMonthDayNano
	Decimal
	Struct
	List
	LargeList
	FixedSizeList
	Map
	SparseUnion
	DenseUnion
)

var typeNames = map[Type]string{
	Null:                 "null",
	Bool:                 "bool",
	Int8:                 "int8",
	Uint8:                "uint8",
	Int16:                "int16",
	Uint16:               "uint16",
	Int32:                "int32",
	Uint32:               "uint32",
	Int64:                "int64",
	Uint64:               "uint64",
	Float16:              "float16",
	Float32:              "float32",
	Float64:              "float64",
	String:               "utf8",
	LargeString:          "large_utf8",
	Binary:               "binary",
	LargeBinary:          "large_binary",
	FixedSizeBinary:      "fixed_size_binary",
	Date32:               "date32",
	Date64:               "date64",
	Time32:               "time32",
	Time64:               "time64",
	Timestamp:            "timestamp",
	Duration:             "duration",
	IntervalMonths:       "interval_months",
	IntervalDayTime:      "interval_day_time",
	IntervalMonthDayNano: "interval_month_day_nano",
	Decimal:              "decimal",
	Struct:               "struct",
	List:                 "list",
	LargeList:            "large_list",
	FixedSizeList:        "fixed_size_list",
	Map:                  "map",
	SparseUnion:          "sparse_union",
	DenseUnion:           "dense_union",
}

// String returns a readable name for the type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Nested reports whether values of the type carry child fields.
func (t Type) Nested() bool {
	switch t {
	case Struct, List, LargeList, FixedSizeList, Map, SparseUnion, DenseUnion:
		return true
	}
	return false
}

// TimeUnit is the resolution of a temporal type.
type TimeUnit int

const (
	Second TimeUnit = iota
	Millisecond
	Microsecond
	Nanosecond
)

// String returns the unit's suffix as used inside format strings.
func (u TimeUnit) String() string {
	switch u {
	case Second:
		return "s"
	case Millisecond:
		return "m"
	case Microsecond:
		return "u"
	case Nanosecond:
		return "n"
	}
	return "?"
}

// Info is the parsed form of a format string.
type Info struct {
	Type Type

	// Unit is set for Time32, Time64, Timestamp and Duration.
	Unit TimeUnit
	// Timezone is set for Timestamp; empty means a zoneless timestamp.
	Timezone string
	// ByteWidth is set for FixedSizeBinary.
	ByteWidth int
	// ListSize is set for FixedSizeList.
	ListSize int
	// Precision and Scale are set for Decimal.
	Precision int
	Scale     int
	// DecimalBits is the decimal's bit width; 128 unless the format string
	// carries an explicit third parameter.
	DecimalBits int
	// UnionTypeIDs is the raw comma-separated type id list for unions.
	UnionTypeIDs string
}

// ParseError reports a format string this package cannot interpret.
type ParseError struct {
	Format string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("format: cannot parse %q: %s", e.Format, e.Reason)
}

var simple = map[string]Type{
	"n": Null,
	"b": Bool,
	"c": Int8,
	"C": Uint8,
	"s": Int16,
	"S": Uint16,
	"i": Int32,
	"I": Uint32,
	"l": Int64,
	"L": Uint64,
	"e": Float16,
	"f": Float32,
	"g": Float64,
	"u": String,
	"U": LargeString,
	"z": Binary,
	"Z": LargeBinary,
	"tdD": Date32,
	"tdm": Date64,
	"tiM": IntervalMonths,
	"tiD": IntervalDayTime,
	"tin": IntervalMonthDayNano,
	"+s":  Struct,
	"+l":  List,
	"+L":  LargeList,
	"+m":  Map,
}

// Parse interprets a format string.
func Parse(s string) (Info, error) {
	if s == "" {
		return Info{}, &ParseError{Format: s, Reason: "empty format string"}
	}

	if t, ok := simple[s]; ok {
		return Info{Type: t}, nil
	}

	switch {
	case strings.HasPrefix(s, "w:"):
		width, err := strconv.Atoi(s[2:])
		if err != nil || width < 0 {
			return Info{}, &ParseError{Format: s, Reason: "bad fixed-size binary width"}
		}
		return Info{Type: FixedSizeBinary, ByteWidth: width}, nil

	case strings.HasPrefix(s, "+w:"):
		size, err := strconv.Atoi(s[3:])
		if err != nil || size < 0 {
			return Info{}, &ParseError{Format: s, Reason: "bad fixed-size list length"}
		}
		return Info{Type: FixedSizeList, ListSize: size}, nil

	case strings.HasPrefix(s, "d:"):
		return parseDecimal(s)

	case strings.HasPrefix(s, "tt"):
		return parseTime(s)

	case strings.HasPrefix(s, "ts"):
		return parseTimestamp(s)

	case strings.HasPrefix(s, "tD"):
		unit, ok := unitFromSuffix(s[2:])
		if !ok {
			return Info{}, &ParseError{Format: s, Reason: "bad duration unit"}
		}
		return Info{Type: Duration, Unit: unit}, nil

	case strings.HasPrefix(s, "+us:"):
		return Info{Type: SparseUnion, UnionTypeIDs: s[4:]}, nil

	case strings.HasPrefix(s, "+ud:"):
		return Info{Type: DenseUnion, UnionTypeIDs: s[4:]}, nil
	}

	return Info{}, &ParseError{Format: s, Reason: "unknown format"}
}

func parseDecimal(s string) (Info, error) {
	params := strings.Split(s[2:], ",")
	if len(params) != 2 && len(params) != 3 {
		return Info{}, &ParseError{Format: s, Reason: "decimal needs precision,scale[,bits]"}
	}
	precision, err := strconv.Atoi(params[0])
	if err != nil || precision <= 0 {
		return Info{}, &ParseError{Format: s, Reason: "bad decimal precision"}
	}
	scale, err := strconv.Atoi(params[1])
	if err != nil {
		return Info{}, &ParseError{Format: s, Reason: "bad decimal scale"}
	}
	bits := 128
	if len(params) == 3 {
		bits, err = strconv.Atoi(params[2])
		if err != nil || (bits != 32 && bits != 64 && bits != 128 && bits != 256) {
			return Info{}, &ParseError{Format: s, Reason: "bad decimal bit width"}
		}
	}
	return Info{Type: Decimal, Precision: precision, Scale: scale, DecimalBits: bits}, nil
}

func parseTime(s string) (Info, error) {
	unit, ok := unitFromSuffix(s[2:])
	if !ok {
		return Info{}, &ParseError{Format: s, Reason: "bad time unit"}
	}
	switch unit {
	case Second, Millisecond:
		return Info{Type: Time32, Unit: unit}, nil
	default:
		return Info{Type: Time64, Unit: unit}, nil
	}
}

func parseTimestamp(s string) (Info, error) {
	if len(s) < 4 || s[3] != ':' {
		return Info{}, &ParseError{Format: s, Reason: "timestamp needs a unit and timezone separator"}
	}
	unit, ok := unitFromSuffix(s[2:3])
	if !ok {
		return Info{}, &ParseError{Format: s, Reason: "bad timestamp unit"}
	}
	return Info{Type: Timestamp, Unit: unit, Timezone: s[4:]}, nil
}

func unitFromSuffix(s string) (TimeUnit, bool) {
	switch s {
	case "s":
		return Second, true
	case "m":
		return Millisecond, true
	case "u":
		return Microsecond, true
	case "n":
		return Nanosecond, true
	}
	return 0, false
}

// String rebuilds the canonical format string for the parsed info.
func (i Info) String() string {
	switch i.Type {
	case FixedSizeBinary:
		return fmt.Sprintf("w:%d", i.ByteWidth)
	case FixedSizeList:
		return fmt.Sprintf("+w:%d", i.ListSize)
	case Decimal:
		bits := i.DecimalBits
		if bits == 0 {
			bits = 128
		}
		if bits == 128 {
			return fmt.Sprintf("d:%d,%d", i.Precision, i.Scale)
		}
		return fmt.Sprintf("d:%d,%d,%d", i.Precision, i.Scale, bits)
	case Time32, Time64:
		return "tt" + i.Unit.String()
	case Timestamp:
		return "ts" + i.Unit.String() + ":" + i.Timezone
	case Duration:
		return "tD" + i.Unit.String()
	case SparseUnion:
		return "+us:" + i.UnionTypeIDs
	case DenseUnion:
		return "+ud:" + i.UnionTypeIDs
	}

	for s, t := range simple {
		if t == i.Type {
			return s
		}
	}
	return ""
}

//go:build !ios && !android && (amd64 || arm64)

package convert

import (
	"errors"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"

	"github.com/obinnaokechukwu/arrowcdata/cdata"
	"github.com/obinnaokechukwu/arrowcdata/format"
	"github.com/obinnaokechukwu/arrowcdata/internal/ffi"
	"github.com/obinnaokechukwu/arrowcdata/internal/handles"
)

func TestSchemaRoundTrip(t *testing.T) {
	md := arrow.NewMetadata([]string{"origin"}, []string{"telemetry"})
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "when", Type: &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}},
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String), Nullable: true},
		{Name: "point", Type: arrow.StructOf(
			arrow.Field{Name: "x", Type: arrow.PrimitiveTypes.Float32},
			arrow.Field{Name: "y", Type: arrow.PrimitiveTypes.Float32},
		)},
	}, &md)

	var c cdata.Schema
	if err := ExportSchema(schema, &c); err != nil {
		t.Fatalf("ExportSchema failed: %v", err)
	}
	defer c.Release()

	if got := c.FormatString(); got != "+s" {
		t.Fatalf("top-level format = %q, want \"+s\"", got)
	}
	if c.NChildren != int64(schema.NumFields()) {
		t.Fatalf("NChildren = %d, want %d", c.NChildren, schema.NumFields())
	}

	got, err := ImportSchema(&c)
	if err != nil {
		t.Fatalf("ImportSchema failed: %v", err)
	}
	if !schema.Equal(got) {
		t.Fatalf("round trip changed schema:\nsent %s\ngot  %s", schema, got)
	}
	if !schema.Metadata().Equal(got.Metadata()) {
		t.Fatalf("round trip changed metadata: sent %v, got %v", schema.Metadata(), got.Metadata())
	}
}

func TestFieldRoundTrip(t *testing.T) {
	sortedMap := arrow.MapOf(arrow.BinaryTypes.String, arrow.PrimitiveTypes.Int32)
	sortedMap.KeysSorted = true

	types := []arrow.DataType{
		arrow.FixedWidthTypes.Boolean,
		arrow.PrimitiveTypes.Uint16,
		arrow.FixedWidthTypes.Float16,
		arrow.BinaryTypes.LargeBinary,
		&arrow.FixedSizeBinaryType{ByteWidth: 16},
		&arrow.Decimal128Type{Precision: 38, Scale: 9},
		&arrow.Decimal256Type{Precision: 70, Scale: 10},
		arrow.FixedWidthTypes.Date32,
		&arrow.Time64Type{Unit: arrow.Nanosecond},
		&arrow.DurationType{Unit: arrow.Millisecond},
		arrow.FixedWidthTypes.MonthDayNanoInterval,
		arrow.LargeListOf(arrow.PrimitiveTypes.Int8),
		arrow.FixedSizeListOf(4, arrow.PrimitiveTypes.Float64),
		sortedMap,
	}

	for _, dt := range types {
		var c cdata.Schema
		field := arrow.Field{Name: "v", Type: dt, Nullable: true}
		if err := ExportField(field, &c); err != nil {
			t.Fatalf("ExportField(%s) failed: %v", dt, err)
		}
		got, err := ImportField(&c)
		c.Release()
		if err != nil {
			t.Fatalf("ImportField(%s) failed: %v", dt, err)
		}
		if !arrow.TypeEqual(dt, got.Type) {
			t.Errorf("round trip changed type: sent %s, got %s", dt, got.Type)
		}
		if got.Name != "v" || !got.Nullable {
			t.Errorf("%s: field = %+v, want name \"v\" nullable", dt, got)
		}
	}
}

func TestMapKeysSortedSurvives(t *testing.T) {
	m := arrow.MapOf(arrow.BinaryTypes.String, arrow.PrimitiveTypes.Int64)
	m.KeysSorted = true

	var c cdata.Schema
	if err := ExportField(arrow.Field{Name: "m", Type: m, Nullable: true}, &c); err != nil {
		t.Fatalf("ExportField failed: %v", err)
	}
	defer c.Release()

	if !c.MapKeysSorted() {
		t.Fatal("sorted-keys flag not set on exported structure")
	}
	got, err := ImportField(&c)
	if err != nil {
		t.Fatalf("ImportField failed: %v", err)
	}
	if !got.Type.(*arrow.MapType).KeysSorted {
		t.Fatal("sorted-keys flag lost on import")
	}
}

func TestDictionaryRoundTrip(t *testing.T) {
	dt := &arrow.DictionaryType{
		IndexType: arrow.PrimitiveTypes.Int32,
		ValueType: arrow.BinaryTypes.String,
		Ordered:   true,
	}

	var c cdata.Schema
	if err := ExportField(arrow.Field{Name: "d", Type: dt, Nullable: true}, &c); err != nil {
		t.Fatalf("ExportField failed: %v", err)
	}
	defer c.Release()

	if got := c.FormatString(); got != "i" {
		t.Fatalf("dictionary format = %q, want index type \"i\"", got)
	}
	if c.Dictionary == nil {
		t.Fatal("dictionary member not populated")
	}
	if !c.DictionaryOrdered() {
		t.Fatal("ordered flag not set")
	}

	got, err := ImportField(&c)
	if err != nil {
		t.Fatalf("ImportField failed: %v", err)
	}
	imported, ok := got.Type.(*arrow.DictionaryType)
	if !ok {
		t.Fatalf("imported type = %s, want dictionary", got.Type)
	}
	if !arrow.TypeEqual(imported.ValueType, dt.ValueType) || !arrow.TypeEqual(imported.IndexType, dt.IndexType) {
		t.Fatalf("round trip changed dictionary: got %s", imported)
	}
	if !imported.Ordered {
		t.Fatal("ordered flag lost on import")
	}
}

func TestReleaseFreesExportState(t *testing.T) {
	before := handles.Count()

	var c cdata.Schema
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "a", Type: arrow.PrimitiveTypes.Int32},
		{Name: "b", Type: arrow.ListOf(arrow.BinaryTypes.String), Nullable: true},
	}, nil)
	if err := ExportSchema(schema, &c); err != nil {
		t.Fatalf("ExportSchema failed: %v", err)
	}
	if handles.Count() <= before {
		t.Fatal("export registered no handles")
	}

	c.Release()
	if !c.Released() {
		t.Fatal("structure still populated after release")
	}
	if got := handles.Count(); got != before {
		t.Fatalf("%d handles leaked after release", got-before)
	}

	// Releasing again must stay a no-op.
	c.Release()
	if got := handles.Count(); got != before {
		t.Fatalf("second release changed handle count to %d", got)
	}
}

func TestExportIntoOwnedTarget(t *testing.T) {
	var c cdata.Schema
	if err := ExportField(arrow.Field{Name: "v", Type: arrow.PrimitiveTypes.Int32}, &c); err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	defer c.Release()

	err := ExportField(arrow.Field{Name: "w", Type: arrow.PrimitiveTypes.Int64}, &c)
	if !errors.Is(err, ErrTargetOwned) {
		t.Fatalf("second export returned %v, want ErrTargetOwned", err)
	}
}

func TestExportUnsupportedType(t *testing.T) {
	run := arrow.RunEndEncodedOf(arrow.PrimitiveTypes.Int32, arrow.BinaryTypes.String)

	var c cdata.Schema
	err := ExportField(arrow.Field{Name: "r", Type: run}, &c)
	var ute *UnsupportedTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("export returned %v, want UnsupportedTypeError", err)
	}
	if !c.Released() {
		t.Fatal("failed export left the target populated")
	}
}

func TestImportUnpopulated(t *testing.T) {
	var c cdata.Schema
	if _, err := ImportField(&c); !errors.Is(err, ErrNotPopulated) {
		t.Fatalf("ImportField returned %v, want ErrNotPopulated", err)
	}
	if _, err := ImportSchema(&c); !errors.Is(err, ErrNotPopulated) {
		t.Fatalf("ImportSchema returned %v, want ErrNotPopulated", err)
	}
}

func TestImportBadFormat(t *testing.T) {
	release := ffi.NewVoidCallback1(func(uintptr) {})

	var c cdata.Schema
	c.Format = cdata.CString("xyz")
	c.SetRelease(release)

	_, err := ImportField(&c)
	var pe *format.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("ImportField returned %v, want ParseError", err)
	}
	c.MarkReleased()
}

func TestImportUnionUnsupported(t *testing.T) {
	release := ffi.NewVoidCallback1(func(uintptr) {})

	var c cdata.Schema
	c.Format = cdata.CString("+us:0,1")
	c.SetRelease(release)

	_, err := ImportField(&c)
	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("ImportField returned %v, want UnsupportedFormatError", err)
	}
	c.MarkReleased()
}

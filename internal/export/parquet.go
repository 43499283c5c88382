package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/robert-malhotra/go-srx/internal/dtype"
	"github.com/robert-malhotra/go-srx/internal/particle"
)

// Schema metadata keys.
const (
	MetaNumPoints = "srx.num_points"
	MetaType      = "srx.type"
)

const defaultRowGroupLength = 8124

type parquetConfig struct {
	rowGroupLength int64
	compression    compress.Compression
}

// ParquetOption configures WriteParquet.
type ParquetOption func(*parquetConfig)

// WithRowGroupLength caps the number of rows per row group.
func WithRowGroupLength(n int64) ParquetOption {
	return func(c *parquetConfig) {
		c.rowGroupLength = n
	}
}

// WithCompression sets the column chunk codec.
func WithCompression(codec compress.Compression) ParquetOption {
	return func(c *parquetConfig) {
		c.compression = codec
	}
}

// ArrowType returns the Arrow type a particle column type is written as.
func ArrowType(t dtype.Type) (arrow.DataType, error) {
	switch t {
	case dtype.Bool8:
		return arrow.FixedWidthTypes.Boolean, nil
	case dtype.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case dtype.Int64Timestamp:
		return arrow.PrimitiveTypes.Int64, nil
	case dtype.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	default:
		return nil, fmt.Errorf("no arrow type for %s", t)
	}
}

// Schema builds the Arrow schema of a particle table.
func Schema(t *particle.Table) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(t.Columns))
	for i, c := range t.Columns {
		typ, err := ArrowType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		fields[i] = arrow.Field{
			Name:     string(c.Name),
			Type:     typ,
			Metadata: arrow.NewMetadata([]string{MetaType}, []string{c.Type.String()}),
		}
	}
	md := arrow.NewMetadata([]string{MetaNumPoints}, []string{strconv.Itoa(t.NumPoints)})
	return arrow.NewSchema(fields, &md), nil
}

// WriteParquet writes t as a single Parquet file to w. It does not close w.
func WriteParquet(w io.Writer, t *particle.Table, opts ...ParquetOption) error {
	cfg := parquetConfig{
		rowGroupLength: defaultRowGroupLength,
		compression:    compress.Codecs.Zstd,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	schema, err := Schema(t)
	if err != nil {
		return err
	}

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	for i := range t.Columns {
		if err := appendColumn(b.Field(i), &t.Columns[i]); err != nil {
			return err
		}
	}
	record := b.NewRecord()
	defer record.Release()

	writerProps := parquet.NewWriterProperties(
		parquet.WithMaxRowGroupLength(cfg.rowGroupLength),
		parquet.WithCompression(cfg.compression),
	)
	arrprops := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	// The parquet writer closes its sink if it can; hide w's Close.
	writer, err := pqarrow.NewFileWriter(schema, struct{ io.Writer }{w}, writerProps, arrprops)
	if err != nil {
		return fmt.Errorf("creating parquet writer: %w", err)
	}
	if err := writer.Write(record); err != nil {
		writer.Close()
		return fmt.Errorf("writing parquet record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return nil
}

func appendColumn(fb array.Builder, c *particle.Column) error {
	switch d := c.Data.(type) {
	case []bool:
		fb.(*array.BooleanBuilder).AppendValues(d, nil)
	case []int32:
		fb.(*array.Int32Builder).AppendValues(d, nil)
	case []int64:
		fb.(*array.Int64Builder).AppendValues(d, nil)
	case []float64:
		fb.(*array.Float64Builder).AppendValues(d, nil)
	default:
		return fmt.Errorf("column %q: unsupported data %T", c.Name, c.Data)
	}
	return nil
}

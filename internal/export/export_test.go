package export

import (
	"bufio"
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/go-faster/jx"
	"github.com/robert-malhotra/go-srx/internal/dtype"
	"github.com/robert-malhotra/go-srx/internal/particle"
	"github.com/robert-malhotra/go-srx/internal/rawimage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func sampleTable() *particle.Table {
	return &particle.Table{
		NumPoints: 3,
		Columns: []particle.Column{
			{Name: []byte("x"), Width: 8, Type: dtype.Float64, Data: []float64{1.5, -2, math.NaN()}},
			{Name: []byte("probe"), Width: 4, Type: dtype.Int32, Data: []int32{0, 1, 2}},
			{Name: []byte(dtype.TimestampColumn), Width: 8, Type: dtype.Int64Timestamp, Data: []int64{10, 20, 1 << 40}},
			{Name: []byte("valid"), Width: 1, Type: dtype.Bool8, Data: []bool{true, false, true}},
		},
	}
}

func TestSchema(t *testing.T) {
	s, err := Schema(sampleTable())
	require.NoError(t, err)
	require.Equal(t, 4, s.NumFields())

	assert.Equal(t, "x", s.Field(0).Name)
	assert.Equal(t, arrow.PrimitiveTypes.Float64, s.Field(0).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Int32, s.Field(1).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, s.Field(2).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Boolean, s.Field(3).Type)

	md := s.Metadata()
	idx := md.FindKey(MetaNumPoints)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "3", md.Values()[idx])
}

func TestWriteParquet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, sampleTable(), WithRowGroupLength(2), WithCompression(compress.Codecs.Snappy)))

	mem := memory.NewGoAllocator()
	tbl, err := pqarrow.ReadTable(context.Background(), bytes.NewReader(buf.Bytes()),
		parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	require.NoError(t, err)
	defer tbl.Release()

	assert.Equal(t, int64(3), tbl.NumRows())
	require.Equal(t, int64(4), tbl.NumCols())
	assert.Equal(t, "frame-timestamp", tbl.Schema().Field(2).Name)

	var probes []int32
	for _, chunk := range tbl.Column(1).Data().Chunks() {
		probes = append(probes, chunk.(*array.Int32).Int32Values()...)
	}
	assert.Equal(t, []int32{0, 1, 2}, probes)

	var stamps []int64
	for _, chunk := range tbl.Column(2).Data().Chunks() {
		stamps = append(stamps, chunk.(*array.Int64).Int64Values()...)
	}
	assert.Equal(t, []int64{10, 20, 1 << 40}, stamps)

	var valid []bool
	for _, chunk := range tbl.Column(3).Data().Chunks() {
		b := chunk.(*array.Boolean)
		for i := 0; i < b.Len(); i++ {
			valid = append(valid, b.Value(i))
		}
	}
	assert.Equal(t, []bool{true, false, true}, valid)
}

func TestWriteParquetEmptyTable(t *testing.T) {
	tbl := &particle.Table{Columns: []particle.Column{
		{Name: []byte("x"), Width: 8, Type: dtype.Float64, Data: []float64{}},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, tbl))
	assert.NotZero(t, buf.Len())
}

func TestWriteJSONLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONLines(&buf, sampleTable()))

	sc := bufio.NewScanner(strings.NewReader(buf.String()))
	var rows []map[string]any
	for sc.Scan() {
		row := map[string]any{}
		err := jx.DecodeBytes(sc.Bytes()).Obj(func(d *jx.Decoder, key string) error {
			switch d.Next() {
			case jx.Null:
				row[key] = nil
				return d.Null()
			case jx.Bool:
				v, err := d.Bool()
				row[key] = v
				return err
			default:
				v, err := d.Float64()
				row[key] = v
				return err
			}
		})
		require.NoError(t, err)
		rows = append(rows, row)
	}
	require.NoError(t, sc.Err())
	require.Len(t, rows, 3)

	assert.Equal(t, 1.5, rows[0]["x"])
	assert.Equal(t, float64(1), rows[1]["probe"])
	assert.Equal(t, false, rows[1]["valid"])
	assert.Nil(t, rows[2]["x"], "NaN is written as null")
	assert.Equal(t, float64(1<<40), rows[2]["frame-timestamp"])
}

func TestWriteTIFF(t *testing.T) {
	img := rawimage.NewImage(2, 3)
	for i := range img.Pix {
		img.Pix[i] = uint16(1000*i + 7)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTIFF(&buf, img))

	decoded, err := tiff.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	b := decoded.Bounds()
	assert.Equal(t, 3, b.Dx(), "width is DimY")
	assert.Equal(t, 2, b.Dy(), "height is DimX")

	for x := 0; x < img.DimX; x++ {
		for y := 0; y < img.DimY; y++ {
			r, _, _, _ := decoded.At(y, x).RGBA()
			assert.Equal(t, uint32(img.At(x, y)), r, "sample (%d,%d)", x, y)
		}
	}
}

func TestWriteTIFFShapeMismatch(t *testing.T) {
	img := &rawimage.Image{DimX: 2, DimY: 2, Pix: []uint16{1, 2, 3}}
	assert.Error(t, WriteTIFF(&bytes.Buffer{}, img))
}

package srx

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/robert-malhotra/go-srx/blobstore"
	srxbin "github.com/robert-malhotra/go-srx/internal/binary"
	"github.com/robert-malhotra/go-srx/internal/rawimage"
)

type fixture struct {
	dimX, dimY     int
	framesPerBatch int
	numZ, probes   int
	mode           string
}

func defaultFixture() fixture {
	return fixture{dimX: 2, dimY: 3, framesPerBatch: 4, numZ: 3, probes: 2, mode: "Sequential"}
}

func (f fixture) numFrames() int {
	return f.numZ * f.probes
}

// sample is the value of sample i of global frame g.
func sample(g, i int) uint16 {
	return uint16(100*g + i + 1)
}

// global returns the frame a coordinate is stored at for the fixture's mode.
func (f fixture) global(z, probe int) int {
	if f.mode == "Interleaved" {
		return z*f.probes + probe
	}
	return probe*f.numZ + z
}

func (f fixture) dataJSON() string {
	return fmt.Sprintf(`{"type":"DataConfiguration","value":{`+
		`"Recording":{"ZStackMode":%q,"FramesPerBatch":%d,"NumZPos":%d},`+
		`"Image":{"DimX":%d,"DimY":%d}}}`,
		f.mode, f.framesPerBatch, f.numZ, f.dimX, f.dimY)
}

// frameInfo writes the table in the mode's sort order.
func (f fixture) frameInfo() string {
	var b strings.Builder
	b.WriteString("Timepoint,Cycle,ZPos,Probe,Frame,GlobalIndex\n")
	row := func(z, p int) {
		fmt.Fprintf(&b, "0,0,%d,%d,0,%d\n", z, p, f.global(z, p))
	}
	if f.mode == "Interleaved" {
		for z := 0; z < f.numZ; z++ {
			for p := 0; p < f.probes; p++ {
				row(z, p)
			}
		}
	} else {
		for p := 0; p < f.probes; p++ {
			for z := 0; z < f.numZ; z++ {
				row(z, p)
			}
		}
	}
	return b.String()
}

func (f fixture) files() map[string][]byte {
	files := map[string][]byte{
		"Raw Images/data.json":     []byte(f.dataJSON()),
		"Raw Images/frameinfo.csv": []byte(f.frameInfo()),
	}
	frameSize := f.dimX * f.dimY
	for b := 0; b*f.framesPerBatch < f.numFrames(); b++ {
		w := srxbin.NewWriter(nil)
		for g := b * f.framesPerBatch; g < f.numFrames() && g < (b+1)*f.framesPerBatch; g++ {
			for i := 0; i < frameSize; i++ {
				w.WriteUint16(sample(g, i))
			}
		}
		files["Raw Images/"+rawimage.BatchName(b)] = w.Bytes()
	}
	return files
}

func (f fixture) store(t *testing.T) *blobstore.MemoryStore {
	t.Helper()
	m := blobstore.NewMemoryStore()
	for name, data := range f.files() {
		m.Put(name, data)
	}
	return m
}

// encodeParticles builds a particle file with an x (float64), a probe
// (int32) and a valid (bool8) column.
func encodeParticles(xs []float64, probes []int32, valid []bool) []byte {
	w := srxbin.NewWriter(nil)
	w.WriteInt32(3)
	for _, c := range []struct {
		name  string
		width int32
	}{{"x", 8}, {"probe", 4}, {"valid", 1}} {
		w.WriteInt32(int32(len(c.name)))
		w.WriteBytes([]byte(c.name))
		w.WriteInt32(c.width)
	}
	for i := range xs {
		w.WriteFloat64(xs[i])
		w.WriteInt32(probes[i])
		w.WriteBool(valid[i])
	}
	return w.Bytes()
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}
	return buf.Bytes()
}

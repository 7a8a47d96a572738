package unblock

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// WriteTSV writes the histograms and adjustment tables of one pass as a
// tab-separated table: a "# <orientation>" line, a header line, then one
// row per discrepancy magnitude 0..255. Gray analyses have 11 columns;
// color analyses have 31.
func WriteTSV(w io.Writer, a *Analysis) error {
	bw := bufio.NewWriter(w)

	type column struct {
		name string
		ch   *Channel
	}
	chans := []column{{"y", &a.Y}}
	if a.Color {
		chans = append(chans, column{"cb", &a.Cb}, column{"cr", &a.Cr})
	}

	header := []string{"value"}
	for _, c := range chans {
		header = append(header, c.name+" u adj", c.name+" v adj")
	}
	for _, c := range chans {
		for _, uv := range []string{"u", "v"} {
			p := c.name + " " + uv
			header = append(header, p+" int", p+" bnd", p+" int cum", p+" bnd cum")
		}
	}

	bw.WriteString("# " + a.Orientation.String() + "\n")
	bw.WriteString(strings.Join(header, "\t"))
	bw.WriteByte('\n')

	// Running sums per channel: u int, u bnd, v int, v bnd.
	cum := make([][4]uint64, len(chans))
	row := make([]byte, 0, 256)
	for v := 0; v < 256; v++ {
		row = strconv.AppendInt(row[:0], int64(v), 10)
		for _, c := range chans {
			row = appendField(row, uint64(c.ch.AdjustU[v]))
			row = appendField(row, uint64(c.ch.AdjustV[v]))
		}
		for i, c := range chans {
			hists := [4]*Histogram{&c.ch.InternalU, &c.ch.BoundaryU, &c.ch.InternalV, &c.ch.BoundaryV}
			for k := 0; k < 4; k += 2 {
				in, bd := uint64(hists[k][v]), uint64(hists[k+1][v])
				cum[i][k] += in
				cum[i][k+1] += bd
				row = appendField(row, in)
				row = appendField(row, bd)
				row = appendField(row, cum[i][k])
				row = appendField(row, cum[i][k+1])
			}
		}
		row = append(row, '\n')
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func appendField(b []byte, v uint64) []byte {
	b = append(b, '\t')
	return strconv.AppendUint(b, v, 10)
}

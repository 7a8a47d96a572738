package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/AnyUserName/unblock-cli/internal/planar"
	"github.com/cespare/xxhash/v2"
)

// ContentHash returns the xxHash64 of data as hex, truncated to hexLen
// characters when 0 < hexLen < 16.
func ContentHash(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// ContentHashReader is ContentHash over a stream.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return format(h.Sum64(), hexLen), nil
}

// PlaneDigest hashes the defined samples of img row by row in channel
// order, independent of layout and stride. Two images with equal samples
// digest equally whether they are packed, planar or bottom-up.
func PlaneDigest(img *planar.Image, hexLen int) string {
	h := xxhash.New()

	chans := []planar.Channel{planar.ChannelY}
	if img.Color {
		chans = append(chans, planar.ChannelCb, planar.ChannelCr)
	}
	if img.Alpha {
		chans = append(chans, planar.ChannelAlpha)
	}

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(img.Width))
	binary.BigEndian.PutUint32(hdr[4:], uint32(img.Height))
	h.Write(hdr[:])

	row := make([]byte, img.Width)
	for _, c := range chans {
		for y := 0; y < img.Height; y++ {
			cur := img.Cursor(c, 0, y)
			for x := range row {
				row[x] = cur.Get()
				cur.Right()
			}
			h.Write(row)
		}
	}
	return format(h.Sum64(), hexLen)
}

func format(sum uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}

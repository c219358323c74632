package pdf

import (
	"bytes"
	"compress/zlib"
	"encoding/ascii85"
	"errors"
	"fmt"
	"io"
)

// maxDecoded bounds the size of any decoded stream.
const maxDecoded = 256 << 20

var errTooLarge = errors.New("pdf: decoded stream exceeds 256 MiB")

// decode applies the filter chain named in a stream dictionary.
func decode(d Dict, data []byte) ([]byte, error) {
	filters, _ := d.Array("Filter")
	parms, _ := d.Array("DecodeParms")

	for i, fo := range filters {
		if fo.Kind != Name {
			continue
		}
		var p Dict
		if i < len(parms) && parms[i].Kind == Dictionary {
			p = parms[i].Dict
		}
		var err error
		switch fo.Name {
		case "FlateDecode", "Fl":
			data, err = inflate(data, p)
		case "ASCIIHexDecode", "AHx":
			if end := bytes.IndexByte(data, '>'); end >= 0 {
				data = data[:end]
			}
			data = decodeHex(bytes.Join(bytes.Fields(data), nil))
		case "ASCII85Decode", "A85":
			data, err = decodeA85(data)
		case "DCTDecode", "JPXDecode", "CCITTFaxDecode", "JBIG2Decode":
			// Image payloads are never text.
			return data, nil
		default:
			err = fmt.Errorf("unsupported filter %s", fo.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("pdf: %s: %w", fo.Name, err)
		}
	}
	return data, nil
}

func readAllLimited(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, maxDecoded+1))
	if err != nil {
		return nil, err
	}
	if len(out) > maxDecoded {
		return nil, errTooLarge
	}
	return out, nil
}

func inflate(data []byte, p Dict) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out, err := readAllLimited(zr)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	if pred, ok := p.Int("Predictor"); ok && pred >= 10 {
		return unpredictPNG(out, p), nil
	}
	return out, nil
}

func decodeA85(data []byte) ([]byte, error) {
	if end := bytes.Index(data, []byte("~>")); end >= 0 {
		data = data[:end]
	}
	return readAllLimited(ascii85.NewDecoder(bytes.NewReader(data)))
}

// unpredictPNG reverses the PNG row filters used by xref and object streams.
func unpredictPNG(data []byte, p Dict) []byte {
	colors, _ := p.Int("Colors")
	bpc, _ := p.Int("BitsPerComponent")
	cols, _ := p.Int("Columns")
	colors, bpc, cols = max(colors, 1), max(bpc, 8), max(cols, 1)

	rowLen := int((cols*colors*bpc + 7) / 8)
	bpp := max(int(colors*bpc/8), 1)
	stride := rowLen + 1
	rows := len(data) / stride

	out := make([]byte, rows*rowLen)
	prev := make([]byte, rowLen)
	for r := 0; r < rows; r++ {
		src := data[r*stride+1 : (r+1)*stride]
		dst := out[r*rowLen : (r+1)*rowLen]
		for i := range dst {
			var left, upLeft byte
			if i >= bpp {
				left, upLeft = dst[i-bpp], prev[i-bpp]
			}
			up := prev[i]
			switch data[r*stride] {
			case 1:
				dst[i] = src[i] + left
			case 2:
				dst[i] = src[i] + up
			case 3:
				dst[i] = src[i] + byte((int(left)+int(up))/2)
			case 4:
				dst[i] = src[i] + paeth(left, up, upLeft)
			default:
				dst[i] = src[i]
			}
		}
		prev = dst
	}
	return out
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

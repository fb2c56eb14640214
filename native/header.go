package native

import (
	"encoding/binary"
	"fmt"

	"github.com/vexport/vexport/schema"
)

// Signature identifies a native-format file. The embedded \n, \r\n and NUL
// bytes let a reader detect line-ending mangling, the same trick the PNG
// signature uses.
var Signature = [11]byte{'N', 'A', 'T', 'I', 'V', 'E', 0x0A, 0xFF, 0x0D, 0x0A, 0x00}

// formatVersion is the only file version the engine's loader accepts.
const formatVersion = 1

// BuildHeader serializes the file preamble for the given schema: signature,
// header-area length, version, filler, column count and the per-column width
// table. It is schema-only and idempotent; row data never appears here.
func BuildHeader(cols schema.Columns) ([]byte, error) {
	widths, err := cols.NativeWidths()
	if err != nil {
		return nil, fmt.Errorf("error in cols.NativeWidths: %w", err)
	}

	// everything after the length field itself: version + filler + count + widths
	area := 4 + 4 + 2 + 2*len(widths)

	buf := make([]byte, 0, len(Signature)+4+area)
	buf = append(buf, Signature[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(area))
	buf = binary.LittleEndian.AppendUint32(buf, formatVersion)
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(widths)))
	for _, w := range widths {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(w))
	}

	return buf, nil
}

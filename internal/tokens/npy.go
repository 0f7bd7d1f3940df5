package tokens

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// npy format 1.0: magic, version, little-endian uint16 header length, then a
// Python dict literal padded with spaces so the data section starts on a
// 64-byte boundary.
var npyMagic = []byte{0x93, 'N', 'U', 'M', 'P', 'Y', 1, 0}

const npyAlign = 64

// Encode renders a one-dimensional int64 sequence in npy format 1.0.
func Encode(sequence []int64) []byte {
	header := fmt.Sprintf("{'descr': '<i8', 'fortran_order': False, 'shape': (%d,), }", len(sequence))
	unpadded := len(npyMagic) + 2 + len(header) + 1
	padding := (npyAlign - unpadded%npyAlign) % npyAlign

	var buf bytes.Buffer
	buf.Grow(unpadded + padding + 8*len(sequence))
	buf.Write(npyMagic)

	headerLen := len(header) + padding + 1
	var lenBytes [2]byte
	binary.LittleEndian.PutUint16(lenBytes[:], uint16(headerLen))
	buf.Write(lenBytes[:])
	buf.WriteString(header)
	buf.WriteString(strings.Repeat(" ", padding))
	buf.WriteByte('\n')

	var valueBytes [8]byte
	for _, v := range sequence {
		binary.LittleEndian.PutUint64(valueBytes[:], uint64(v))
		buf.Write(valueBytes[:])
	}
	return buf.Bytes()
}

// Write persists sequence at path, silently replacing any existing artifact.
func Write(path string, sequence []int64) error {
	if err := os.WriteFile(path, Encode(sequence), 0o644); err != nil {
		return fmt.Errorf("write token artifact %s: %w", path, err)
	}
	return nil
}

// Read parses an artifact previously produced by Write. It understands only
// the subset of the format Encode emits (1-D little-endian int64).
func Read(path string) ([]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < len(npyMagic)+2 || !bytes.Equal(data[:len(npyMagic)], npyMagic) {
		return nil, fmt.Errorf("%s: not an npy 1.0 artifact", path)
	}
	headerLen := int(binary.LittleEndian.Uint16(data[len(npyMagic):]))
	headerStart := len(npyMagic) + 2
	if len(data) < headerStart+headerLen {
		return nil, fmt.Errorf("%s: truncated npy header", path)
	}
	header := string(data[headerStart : headerStart+headerLen])
	if !strings.Contains(header, "'<i8'") || strings.Contains(header, "True") {
		return nil, fmt.Errorf("%s: unsupported npy layout %q", path, strings.TrimSpace(header))
	}
	count, err := parseShape(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	payload := data[headerStart+headerLen:]
	if len(payload) != 8*count {
		return nil, fmt.Errorf("%s: payload is %d bytes, want %d", path, len(payload), 8*count)
	}
	sequence := make([]int64, count)
	for i := range sequence {
		sequence[i] = int64(binary.LittleEndian.Uint64(payload[8*i:]))
	}
	return sequence, nil
}

func parseShape(header string) (int, error) {
	start := strings.Index(header, "(")
	end := strings.Index(header, ")")
	if start < 0 || end < start {
		return 0, fmt.Errorf("malformed shape in header %q", strings.TrimSpace(header))
	}
	text := strings.TrimSuffix(strings.TrimSpace(header[start+1:end]), ",")
	if strings.Contains(text, ",") {
		return 0, fmt.Errorf("expected 1-D shape, got %q", text)
	}
	count, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("parse shape %q: %w", text, err)
	}
	return count, nil
}

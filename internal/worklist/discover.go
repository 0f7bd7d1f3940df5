package worklist

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"semtok/internal/logging"
)

// labelExtensions are the file suffixes treated as label files during the walk.
var labelExtensions = map[string]bool{
	".txt":  true,
	".list": true,
}

// codec pairs a human-readable name with a decoder for the fallback chain.
type codec struct {
	name    string
	decoder *encoding.Decoder
}

// fallbackCodecs is the fixed trial order for label file contents. UTF-8 is
// handled separately (validated, not transformed); the rest mirror the
// encodings seen in the wild for this corpus format.
func fallbackCodecs() []codec {
	return []codec{
		{name: "gbk", decoder: simplifiedchinese.GBK.NewDecoder()},
		{name: "gb18030", decoder: simplifiedchinese.GB18030.NewDecoder()},
		{name: "utf-16", decoder: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()},
	}
}

// Result captures the outcome of a discovery walk.
type Result struct {
	Items        []Item
	LabelFiles   int
	SkippedFiles int
	SkippedLines int
}

// Discover walks root for label files and returns the global work list in
// walk order. Undecodable files and malformed lines are skipped with a
// warning; only the walk itself can fail the call.
func Discover(root string, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	var res Result

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !labelExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		res.LabelFiles++

		group, relErr := filepath.Rel(root, filepath.Dir(path))
		if relErr != nil {
			return relErr
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read label file %s: %w", path, readErr)
		}

		text, encodingName, ok := decodeLabelData(data)
		if !ok {
			res.SkippedFiles++
			logger.Warn("label file matches no supported encoding, skipping",
				logging.String("path", path))
			return nil
		}
		logger.Debug("decoded label file",
			logging.String("path", path),
			logging.String("encoding", encodingName))

		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			item, parseErr := parseLine(line, group)
			if parseErr != nil {
				res.SkippedLines++
				logger.Warn("skipping malformed label line",
					logging.String("path", path),
					logging.Error(parseErr))
				continue
			}
			res.Items = append(res.Items, item)
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("discover work list: %w", err)
	}
	return res, nil
}

// decodeLabelData tries UTF-8 first, then the fallback codecs in order.
// A decode counts as successful only when it produces no replacement runes;
// the charset decoders substitute U+FFFD instead of failing outright.
func decodeLabelData(data []byte) (string, string, bool) {
	data = stripUTF8BOM(data)
	if utf8.Valid(data) && !strings.ContainsRune(string(data), utf8.RuneError) {
		return string(data), "utf-8", true
	}
	for _, c := range fallbackCodecs() {
		decoded, err := c.decoder.Bytes(data)
		if err != nil {
			continue
		}
		if strings.ContainsRune(string(decoded), utf8.RuneError) {
			continue
		}
		return string(decoded), c.name, true
	}
	return "", "", false
}

func stripUTF8BOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// parseLine splits one speaker|file|text label line.
func parseLine(line, group string) (Item, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return Item{}, fmt.Errorf("expected 3 fields, got %d: %q", len(parts), line)
	}
	return Item{
		Speaker:  strings.TrimSpace(parts[0]),
		FileName: strings.TrimSpace(parts[1]),
		Text:     strings.TrimSpace(parts[2]),
		Group:    group,
	}, nil
}

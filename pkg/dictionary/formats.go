package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// FileFormat represents different word list file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one word per line
	FormatMsgpack            // msgpack encoded WordList
)

// ErrUnknownFormat is returned for files that are neither .txt nor .mpk.
var ErrUnknownFormat = errors.New("unknown word list format")

// WordList is the on-disk msgpack form of a dictionary.
type WordList struct {
	Name   string   `msgpack:"name"`
	Length int      `msgpack:"length"`
	Words  []string `msgpack:"words"`
}

// FormatInfo contains metadata about a word list file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extension   string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extension:   ".txt",
		MinSize:     0,
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "Msgpack Word List",
		Extension:   ".mpk",
		MinSize:     1,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// DetectFileFormat picks the format from the file extension.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		if info.Extension == ext {
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%s: %w", filename, ErrUnknownFormat)
}

// ValidateFileFormat checks that a file exists, is large enough for its format
// and carries the matching extension.
func ValidateFileFormat(filename string, expected FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	info, ok := supportedFormats[expected]
	if !ok {
		return fmt.Errorf("format %d: %w", expected, ErrUnknownFormat)
	}
	if fileInfo.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), info.Description, info.MinSize)
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != info.Extension {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %s)",
			filename, ext, info.Description, info.Extension)
	}
	return nil
}

// Load reads a word list file into a dictionary named after the file.
func Load(path string, length int) (*Dictionary, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadNamed(name, path, length)
}

// LoadNamed reads a word list file, detecting the format from its extension.
func LoadNamed(name, path string, length int) (*Dictionary, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateFileFormat(path, format); err != nil {
		return nil, err
	}

	var lines []string
	switch format {
	case FormatText:
		lines, err = readText(path)
	case FormatMsgpack:
		lines, err = readMsgpack(path)
	}
	if err != nil {
		return nil, err
	}

	d := New(name, length, lines)
	log.Debugf("Loaded %s (%s): %d of %d lines kept", path, format, d.Len(), len(lines))
	return d, nil
}

func readText(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	return lines, nil
}

func readMsgpack(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer file.Close()

	var wl WordList
	if err := msgpack.NewDecoder(bufio.NewReader(file)).Decode(&wl); err != nil {
		return nil, fmt.Errorf("failed to decode word list %s: %w", path, err)
	}
	return wl.Words, nil
}

// Save writes d as a msgpack word list, which loads faster than text
// because it is already normalized and deduplicated.
func Save(path string, d *Dictionary) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != supportedFormats[FormatMsgpack].Extension {
		return fmt.Errorf("save %s: only .mpk is supported: %w", path, ErrUnknownFormat)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := bufio.NewWriter(file)
	wl := WordList{Name: d.Name, Length: d.Length, Words: d.entries}
	if err := msgpack.NewEncoder(w).Encode(&wl); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

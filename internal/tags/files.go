package tags

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MissingFileError reports a required input file that does not exist.
type MissingFileError struct {
	// Name is the file name as the user supplied it.
	Name string
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s file doesn't exist", e.Name)
}

// RequireFiles checks names in order, resolved against dir, and returns a
// *MissingFileError for the first one that is absent or not a regular file.
func RequireFiles(dir string, names ...string) error {
	for _, name := range names {
		path := Resolve(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return &MissingFileError{Name: name, Path: path}
			}
			return fmt.Errorf("stat %s: %w", name, err)
		}
		if !info.Mode().IsRegular() {
			return &MissingFileError{Name: name, Path: path}
		}
	}
	return nil
}

// Resolve joins name onto dir unless name is already absolute.
func Resolve(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// RenderRequest describes one tag-replacement run over a file.
type RenderRequest struct {
	Dir    string
	Input  string
	Tags   string
	Output string
	Style  Style
}

// RenderResult is the outcome of RenderFile.
type RenderResult struct {
	// Output is the written path, empty when no output file was requested.
	Output string
	Text   string
	Stats  Stats
	Dict   *Dictionary
}

// RenderFile checks that the input and tag files exist, applies the tag
// dictionary to the input and writes the result when req.Output is set.
// Nothing is written when a file is missing or the dictionary is invalid.
func RenderFile(req RenderRequest) (RenderResult, error) {
	if err := RequireFiles(req.Dir, req.Input, req.Tags); err != nil {
		return RenderResult{}, err
	}

	dict, err := Load(Resolve(req.Dir, req.Tags))
	if err != nil {
		return RenderResult{}, err
	}

	data, err := os.ReadFile(Resolve(req.Dir, req.Input))
	if err != nil {
		return RenderResult{}, fmt.Errorf("read input: %w", err)
	}

	text, stats := dict.Apply(string(data), req.Style)
	result := RenderResult{Text: text, Stats: stats, Dict: dict}
	if req.Output == "" {
		return result, nil
	}

	out := Resolve(req.Dir, req.Output)
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return RenderResult{}, fmt.Errorf("write output: %w", err)
	}
	result.Output = out
	return result, nil
}

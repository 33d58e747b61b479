// Package loader reads company records from a directory of JSON files.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"affordability-engine/internal/model"
)

// SupplyFileName is skipped when scanning for company files.
const SupplyFileName = "supply.json"

var (
	ErrUnrecognizedFile = errors.New("file must contain either 'companies' array or single company object with 'name' field")
	ErrInvalidCompany   = errors.New("invalid company record")
)

// File is the raw content of one JSON file in the data directory.
type File struct {
	Name string
	Data []byte
}

// Record is one company object and the location it came from, such as
// "acme.json" or "startups.json[2]".
type Record struct {
	Source string
	Raw    json.RawMessage
}

// ScanDir returns every *.json file in dir except the supply file, ordered
// by name. A missing directory yields no files.
func ScanDir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading data directory %s: %w", dir, err)
	}

	var files []File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == SupplyFileName {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		files = append(files, File{Name: name, Data: data})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Records splits a file into company records. It accepts either
// {"companies": [...]} or a single company object with a "name" key.
func Records(f File) ([]Record, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(f.Data, &top); err != nil {
		return nil, fmt.Errorf("failed to parse JSON in %s: %w", f.Name, err)
	}

	if raw, ok := top["companies"]; ok {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%s: 'companies' must be an array: %w", f.Name, err)
		}
		recs := make([]Record, len(list))
		for i, r := range list {
			recs[i] = Record{Source: fmt.Sprintf("%s[%d]", f.Name, i), Raw: r}
		}
		return recs, nil
	}
	if _, ok := top["name"]; ok {
		return []Record{{Source: f.Name, Raw: json.RawMessage(f.Data)}}, nil
	}
	return nil, fmt.Errorf("%s: %w", f.Name, ErrUnrecognizedFile)
}

// Decode converts a record into a typed company. Failures wrap
// ErrInvalidCompany and name the record's source.
func Decode(r Record) (model.Company, error) {
	var c model.Company
	if err := json.Unmarshal(r.Raw, &c); err != nil {
		return model.Company{}, fmt.Errorf("%w in %s: %w", ErrInvalidCompany, r.Source, err)
	}
	return c, nil
}

// Name reads the record's "name" without decoding the rest of it. ok is
// false when the record is not an object with a string name.
func Name(r Record) (name string, ok bool) {
	var head struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(r.Raw, &head); err != nil || head.Name == nil {
		return "", false
	}
	return *head.Name, true
}

// RawRecords wraps inline company objects, e.g. from a request body.
func RawRecords(source string, raws []json.RawMessage) []Record {
	recs := make([]Record, len(raws))
	for i, r := range raws {
		recs[i] = Record{Source: fmt.Sprintf("%s[%d]", source, i), Raw: r}
	}
	return recs
}

// DirRecords collects the company records of every file in dir. Files that
// hold neither a companies array nor a named company are skipped.
func DirRecords(dir string) ([]Record, error) {
	files, err := ScanDir(dir)
	if err != nil {
		return nil, err
	}
	var recs []Record
	for _, f := range files {
		r, err := Records(f)
		if errors.Is(err, ErrUnrecognizedFile) {
			continue
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, r...)
	}
	return recs, nil
}

// DecodeAll decodes records in order.
func DecodeAll(recs []Record) ([]model.Company, error) {
	companies := make([]model.Company, 0, len(recs))
	for _, r := range recs {
		c, err := Decode(r)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, nil
}

package ranking

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

// Results is an ordered ranking that can be narrowed down without reordering.
type Results struct {
	Items []Result
}

// NewResults copies items so narrowing never touches the caller's slice.
func NewResults(items []Result) *Results {
	return &Results{Items: slices.Clone(items)}
}

func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

func (r *Results) Names() []string {
	names := make([]string, 0, r.Len())
	for _, item := range r.Items {
		names = append(names, item.Name)
	}
	return names
}

func (r *Results) FindByName(name string) *Result {
	for i := range r.Items {
		if r.Items[i].Name == name {
			return &r.Items[i]
		}
	}
	return nil
}

// Exclude drops results whose name is in names and returns the dropped names.
func (r *Results) Exclude(names []string) []string {
	return r.dropWhere(func(item Result) bool {
		return slices.Contains(names, item.Name)
	})
}

// DropBelow drops results scoring under minimum and returns the dropped names.
func (r *Results) DropBelow(minimum float64) []string {
	return r.dropWhere(func(item Result) bool {
		return item.Score < minimum
	})
}

// KeepTop keeps the first n results and returns the dropped names.
func (r *Results) KeepTop(n int) []string {
	if n < 0 || n >= r.Len() {
		return nil
	}

	dropped := make([]string, 0, r.Len()-n)
	for _, item := range r.Items[n:] {
		dropped = append(dropped, item.Name)
	}
	r.Items = r.Items[:n]

	return dropped
}

func (r *Results) dropWhere(drop func(Result) bool) []string {
	var dropped []string
	kept := r.Items[:0]

	for _, item := range r.Items {
		if drop(item) {
			dropped = append(dropped, item.Name)
			continue
		}
		kept = append(kept, item)
	}
	r.Items = kept

	return dropped
}

// DumpToTmpFile writes the results as JSON into a new temporary file and returns its name.
func (r *Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(r.Items); err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}

	return file.Name(), nil
}

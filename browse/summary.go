// Copyright 2026 Converter Systems LLC. All rights reserved.

package browse

import (
	"sort"
	"strings"
)

// DefaultFilter selects the subsystem counted by Summarize.
const DefaultFilter = "SRTM"

// Summary counts the records of a walk.
type Summary struct {
	Filter string
	// Total number of records, error records included.
	Total int
	// Number of error records.
	Errors int
	// Number of depth 1 records whose path contains Filter.
	TopLevel int
	// Number of records below Filter per name prefix. The prefix is the part of the name before the first '_'.
	Categories map[string]int
}

// Category pairs a name prefix with its count.
type Category struct {
	Name  string
	Count int
}

// Summarize counts records. Records directly below the path Filter are grouped by the part of their name
// before the first '_'; names without '_' are not counted.
func Summarize(records []Record, filter string) Summary {
	s := Summary{Filter: filter, Total: len(records), Categories: map[string]int{}}
	prefix := filter + "."
	for _, r := range records {
		if r.IsError() {
			s.Errors++
		}
		if r.Depth == 1 && strings.Contains(r.FullPath, filter) {
			s.TopLevel++
		}
		if strings.HasPrefix(r.FullPath, prefix) {
			if parts := strings.Split(r.Name, "_"); len(parts) > 1 {
				s.Categories[parts[0]]++
			}
		}
	}
	return s
}

// SortedCategories returns the categories ordered by name.
func (s Summary) SortedCategories() []Category {
	cats := make([]Category, 0, len(s.Categories))
	for name, count := range s.Categories {
		cats = append(cats, Category{name, count})
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats
}

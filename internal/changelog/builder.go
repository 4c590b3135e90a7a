package changelog

import (
	"slices"

	"github.com/glitch452/easy-npm-publish/internal/commit"
)

// Build groups classified commits into sections.
//
// Unclassified commits are dropped. Each type becomes one section titled via
// titles. Sections whose type is listed in majorTypes come first; within each
// band sections keep the order in which their type first appears in commits.
func Build(commits []commit.Classified, titles TitleMap, majorTypes []string) []Section {
	var order []string
	buckets := make(map[string][]commit.Classified)

	for _, c := range commits {
		if !c.IsClassified() {
			continue
		}
		if _, seen := buckets[c.Type]; !seen {
			order = append(order, c.Type)
		}
		buckets[c.Type] = append(buckets[c.Type], c)
	}

	sections := make([]Section, 0, len(order))
	appendBand := func(major bool) {
		for _, typ := range order {
			if slices.Contains(majorTypes, typ) != major {
				continue
			}
			sections = append(sections, Section{
				Type:    typ,
				Title:   titles.Title(typ),
				Entries: buckets[typ],
			})
		}
	}

	appendBand(true)
	appendBand(false)

	return sections
}

// EntryCount returns the total number of entries across sections.
func EntryCount(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Entries)
	}
	return n
}

package category

import (
	"fmt"
	"sort"
	"strings"

	"qatrack/backend"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultName replaces a whitespace-only name on rename
const DefaultName = "New category"

// Catalog is the flat, authoritative set of category records.
// Trees are always derived from it with Tree.
type Catalog struct {
	records []Record
	locale  language.Tag
}

// NewCatalog creates a catalog from existing records
func NewCatalog(records []Record, locale language.Tag) *Catalog {
	c := &Catalog{locale: locale}
	c.records = append(c.records, records...)
	return c
}

// Records returns a copy of the flat record set
func (c *Catalog) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of records
func (c *Catalog) Len() int {
	return len(c.records)
}

// Tree rebuilds the derived tree from the current records
func (c *Catalog) Tree() *Tree {
	return Build(c.records, WithLocale(c.locale))
}

func (c *Catalog) find(name string) int {
	for i, r := range c.records {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// Create adds a category. The name must be non-empty after trimming and unique;
// parent, if given, must already exist.
func (c *Catalog) Create(name, parent string) (Record, error) {
	name = strings.TrimSpace(name)
	parent = strings.TrimSpace(parent)

	if name == "" {
		return Record{}, backend.NewValidationError("name", "category name is required")
	}
	if c.find(name) >= 0 {
		return Record{}, backend.NewValidationError("name", "category %q already exists", name)
	}
	if parent != "" && c.find(parent) < 0 {
		return Record{}, backend.NewValidationError("parent", "parent category %q not found", parent)
	}

	r := Record{Name: name, Parent: parent}
	c.records = append(c.records, r)
	return r, nil
}

// Rename changes a category's name and repoints every child at the new name.
// An empty name is rejected; a whitespace-only name becomes DefaultName.
func (c *Catalog) Rename(oldName, newName string) error {
	if newName == "" {
		return backend.NewValidationError("name", "new category name is required")
	}

	idx := c.find(oldName)
	if idx < 0 {
		return backend.NewValidationError("name", "category %q not found", oldName)
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		newName = c.uniqueName(DefaultName)
	}
	if newName == oldName {
		return nil
	}
	if c.find(newName) >= 0 {
		return backend.NewValidationError("name", "category %q already exists", newName)
	}

	c.records[idx].Name = newName
	for i := range c.records {
		if c.records[i].Parent == oldName {
			c.records[i].Parent = newName
		}
	}
	return nil
}

func (c *Catalog) uniqueName(base string) string {
	if c.find(base) < 0 {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if c.find(candidate) < 0 {
			return candidate
		}
	}
}

// Delete removes name and every record whose ancestor chain contains it.
// Deleting an unknown name is a no-op. The removed records are returned.
func (c *Catalog) Delete(name string) []Record {
	if c.find(name) < 0 {
		return nil
	}

	doomed := c.descendantsOf(name)

	var kept, removed []Record
	for _, r := range c.records {
		if doomed[r.Name] {
			removed = append(removed, r)
		} else {
			kept = append(kept, r)
		}
	}
	c.records = kept
	return removed
}

// descendantsOf returns name plus every record that has name somewhere on its
// parent chain. Chains are walked with a visited set so cycles terminate.
func (c *Catalog) descendantsOf(name string) map[string]bool {
	parents := make(map[string]string, len(c.records))
	for _, r := range c.records {
		if _, dup := parents[r.Name]; !dup {
			parents[r.Name] = r.Parent
		}
	}

	result := map[string]bool{name: true}
	for _, r := range c.records {
		visited := make(map[string]bool)
		cur := r.Parent
		for cur != "" && !visited[cur] {
			if cur == name {
				result[r.Name] = true
				break
			}
			visited[cur] = true
			next, ok := parents[cur]
			if !ok {
				break
			}
			cur = next
		}
	}
	return result
}

// AncestorPath returns the names from the top-most ancestor down to name
func (c *Catalog) AncestorPath(name string) ([]string, error) {
	node, ok := c.Tree().Find(name)
	if !ok {
		return nil, backend.NewValidationError("name", "category %q not found", name)
	}
	path := make([]string, len(node.Path))
	copy(path, node.Path)
	return path, nil
}

// ParentCandidates lists the names that may become name's parent without
// creating a cycle, i.e. everything outside name's subtree. An empty name
// returns every category.
func (c *Catalog) ParentCandidates(name string) []string {
	excluded := map[string]bool{}
	if name != "" {
		excluded = c.descendantsOf(name)
	}

	var names []string
	for _, r := range c.records {
		if !excluded[r.Name] {
			names = append(names, r.Name)
		}
	}

	coll := collate.New(c.locale)
	sort.SliceStable(names, func(i, j int) bool {
		return coll.CompareString(names[i], names[j]) < 0
	})
	return names
}

// Move changes name's parent. The new parent must exist and lie outside name's subtree.
func (c *Catalog) Move(name, parent string) error {
	idx := c.find(name)
	if idx < 0 {
		return backend.NewValidationError("name", "category %q not found", name)
	}
	if parent != "" {
		if c.find(parent) < 0 {
			return backend.NewValidationError("parent", "parent category %q not found", parent)
		}
		if c.descendantsOf(name)[parent] {
			return backend.NewValidationError("parent", "moving %q under %q would create a cycle", name, parent)
		}
	}
	c.records[idx].Parent = parent
	return nil
}

// SetCount updates the case count shown next to a category
func (c *Catalog) SetCount(name string, count int) error {
	idx := c.find(name)
	if idx < 0 {
		return backend.NewValidationError("name", "category %q not found", name)
	}
	if count < 0 {
		return backend.NewValidationError("count", "count must not be negative")
	}
	c.records[idx].Count = count
	return nil
}

package document

import "slices"

// ToggleFolder flips the folder's flag and overwrites every child with the
// new value. Unknown ids leave the tree unchanged.
func ToggleFolder(tree []Candidate, folderID string) []Candidate {
	return mapFolder(tree, folderID, func(f Candidate) Candidate {
		return setFolder(f, !f.Included)
	})
}

// ToggleDocument flips exactly one child of parentID. The parent's own flag
// and the siblings are left alone. An empty parentID treats docID as a
// folder and toggles it with its children.
func ToggleDocument(tree []Candidate, docID, parentID string) []Candidate {
	if parentID == "" {
		return ToggleFolder(tree, docID)
	}
	return mapFolder(tree, parentID, func(f Candidate) Candidate {
		i := slices.IndexFunc(f.Children, func(c Candidate) bool { return c.ID == docID })
		if i < 0 {
			return f
		}
		f.Children = slices.Clone(f.Children)
		f.Children[i].Included = !f.Children[i].Included
		return f
	})
}

// ExcludeAll forces the folder and every child to excluded.
func ExcludeAll(tree []Candidate, folderID string) []Candidate {
	return mapFolder(tree, folderID, func(f Candidate) Candidate {
		return setFolder(f, false)
	})
}

// IncludedCount counts included documents. Folder flags are not counted.
func IncludedCount(tree []Candidate) int {
	n := 0
	for _, f := range tree {
		for _, c := range f.Children {
			if c.Included {
				n++
			}
		}
	}
	return n
}

// Partition splits document ids by inclusion, in tree order.
func Partition(tree []Candidate) (included, excluded []string) {
	included, excluded = []string{}, []string{}
	for _, f := range tree {
		for _, c := range f.Children {
			if c.Included {
				included = append(included, c.ID)
			} else {
				excluded = append(excluded, c.ID)
			}
		}
	}
	return included, excluded
}

// Find locates a folder by id, or a document by id within parentID when
// parentID is set.
func Find(tree []Candidate, id, parentID string) (Candidate, bool) {
	for _, f := range tree {
		if parentID == "" {
			if f.ID == id {
				return f, true
			}
			continue
		}
		if f.ID != parentID {
			continue
		}
		for _, c := range f.Children {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Candidate{}, false
}

// Clone deep-copies a tree.
func Clone(tree []Candidate) []Candidate {
	if tree == nil {
		return nil
	}
	out := make([]Candidate, len(tree))
	for i, c := range tree {
		c.Children = Clone(c.Children)
		out[i] = c
	}
	return out
}

func mapFolder(tree []Candidate, folderID string, fn func(Candidate) Candidate) []Candidate {
	i := slices.IndexFunc(tree, func(c Candidate) bool { return c.ID == folderID })
	if i < 0 {
		return tree
	}
	out := slices.Clone(tree)
	out[i] = fn(out[i])
	return out
}

func setFolder(f Candidate, included bool) Candidate {
	f.Included = included
	if f.Children != nil {
		children := make([]Candidate, len(f.Children))
		for i, c := range f.Children {
			c.Included = included
			children[i] = c
		}
		f.Children = children
	}
	return f
}

package staffing

import (
	"github.com/novarix/planning-engine/calendar"
)

// =============================================================================
// WORK PACKAGE TREE - Effective range resolution
// =============================================================================

// PackageTree indexes a project's work packages for ancestor walks.
type PackageTree struct {
	project Project
	byID    map[string]WorkPackage
}

// NewPackageTree builds the index for one project's packages. Packages of
// other projects are ignored.
func NewPackageTree(project Project, packages []WorkPackage) *PackageTree {
	tree := &PackageTree{project: project, byID: make(map[string]WorkPackage, len(packages))}
	for _, wp := range packages {
		if wp.ProjectID == project.ID {
			tree.byID[wp.ID] = wp
		}
	}
	return tree
}

// Get returns a package by ID.
func (t *PackageTree) Get(id string) (WorkPackage, bool) {
	wp, ok := t.byID[id]
	return wp, ok
}

// Children returns the direct children of a package (or the roots for "")
// in insertion-independent but stable ID-indexed form.
func (t *PackageTree) Children(parentID string) []WorkPackage {
	var children []WorkPackage
	for _, wp := range t.byID {
		if wp.ParentID == parentID {
			children = append(children, wp)
		}
	}
	return children
}

// EffectiveRange resolves the date range a work package is planned in. A
// package without its own dates inherits the nearest ancestor's; with no
// dated ancestor the project's range applies. Partially dated nodes
// inherit only the missing end.
//
// The ancestor walk is bounded by the tree size so a corrupt parent cycle
// degrades to the project range instead of hanging.
func (t *PackageTree) EffectiveRange(workPackageID string) calendar.Range {
	start, end := calendar.Date{}, calendar.Date{}

	id := workPackageID
	for hops := 0; hops <= len(t.byID); hops++ {
		wp, ok := t.byID[id]
		if !ok {
			break
		}
		if start.IsZero() && !wp.Start.IsZero() {
			start = wp.Start
		}
		if end.IsZero() && !wp.End.IsZero() {
			end = wp.End
		}
		if !start.IsZero() && !end.IsZero() {
			return calendar.NewRange(start, end)
		}
		if wp.ParentID == "" {
			break
		}
		id = wp.ParentID
	}

	if start.IsZero() {
		start = t.project.Start
	}
	if end.IsZero() {
		end = t.project.End
	}
	return calendar.NewRange(start, end)
}

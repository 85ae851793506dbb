// Package feed resolves the effective content-type/category restrictions for
// a feed query. The resolver is pure: it only looks at the selection and the
// taxonomy passed in, never at ambient state.
package feed

import "github.com/minbar-platform/backend/internal/models"

// Resolution is the outcome of resolving a filter selection.
//
// Empty EffectiveTypeIDs/EffectiveCategoryIDs mean no restriction on that
// axis. FacetCategories is the category list to offer the user for the
// current selection. Unrestricted marks the scenario-3 fallback where a
// default-category selection matched no content type and the query
// deliberately runs without restriction.
type Resolution struct {
	EffectiveTypeIDs     []uint
	EffectiveCategoryIDs []uint
	FacetCategories      []models.Category
	Unrestricted         bool
}

// Resolve maps a filter selection onto query restrictions and the category
// facet. Three scenarios:
//
//  1. Nothing selected: unrestricted query, facet shows default categories only.
//  2. Content types selected: query restricted to those types (and to the
//     selected categories, if any); facet shows the categories scoped to the
//     selected types, defaults hidden.
//  3. Only default categories selected: the defaults are joined by label
//     against the type-scoped categories, and the query is implicitly
//     restricted to the content types that carry a matching scoped category.
func Resolve(requestedTypeIDs, requestedCategoryIDs []uint, allCategories []models.Category) Resolution {
	switch {
	case len(requestedTypeIDs) > 0:
		return resolveTypeScoped(requestedTypeIDs, requestedCategoryIDs, allCategories)
	case len(requestedCategoryIDs) > 0:
		return resolveCrossType(requestedCategoryIDs, allCategories)
	default:
		return Resolution{FacetCategories: defaultCategories(allCategories)}
	}
}

// Scenario 2: one or more content types selected.
func resolveTypeScoped(typeIDs, categoryIDs []uint, all []models.Category) Resolution {
	selected := make(map[uint]struct{}, len(typeIDs))
	for _, id := range typeIDs {
		selected[id] = struct{}{}
	}

	facet := []models.Category{}
	for _, c := range all {
		if c.IsDefault || c.ContentTypeID == nil {
			continue
		}
		if _, ok := selected[*c.ContentTypeID]; ok {
			facet = append(facet, c)
		}
	}

	return Resolution{
		EffectiveTypeIDs:     typeIDs,
		EffectiveCategoryIDs: categoryIDs,
		FacetCategories:      facet,
	}
}

// Scenario 3: default categories selected with no content type. The default
// and type-scoped category namespaces are joined on the label, via an explicit
// lookup table so the join stays auditable.
func resolveCrossType(categoryIDs []uint, all []models.Category) Resolution {
	byLabel := scopedTypesByLabel(all)

	selected := make(map[uint]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		selected[id] = struct{}{}
	}

	typeSet := map[uint]struct{}{}
	typeIDs := []uint{}
	for _, c := range all {
		if !c.IsDefault {
			continue
		}
		if _, ok := selected[c.ID]; !ok {
			continue
		}
		for _, typeID := range byLabel[c.Label] {
			if _, dup := typeSet[typeID]; dup {
				continue
			}
			typeSet[typeID] = struct{}{}
			typeIDs = append(typeIDs, typeID)
		}
	}

	// The restriction is the resolved type set alone: the selected defaults
	// only exist to name labels, items carry type-scoped snapshots.
	res := Resolution{
		EffectiveTypeIDs: typeIDs,
		FacetCategories:  defaultCategories(all),
	}
	if len(typeIDs) == 0 {
		// No content type carries a scoped category matching the selection.
		// Documented fallback: run the query unrestricted.
		res.Unrestricted = true
	}
	return res
}

// scopedTypesByLabel builds the label → content-type lookup used by the
// scenario-3 join.
func scopedTypesByLabel(all []models.Category) map[string][]uint {
	byLabel := map[string][]uint{}
	for _, c := range all {
		if c.IsDefault || c.ContentTypeID == nil {
			continue
		}
		byLabel[c.Label] = append(byLabel[c.Label], *c.ContentTypeID)
	}
	return byLabel
}

func defaultCategories(all []models.Category) []models.Category {
	defaults := []models.Category{}
	for _, c := range all {
		if c.IsDefault {
			defaults = append(defaults, c)
		}
	}
	return defaults
}

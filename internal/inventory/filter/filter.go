// Package filter narrows the merged working table by one facet and an
// optional free-text search.
package filter

import (
	"sort"
	"strings"

	"github.com/smallbiznis/appinventory/internal/inventory/domain"
	"github.com/smallbiznis/appinventory/internal/orghierarchy"
)

const DefaultOwnerRole = "TECHNICAL_ACCOUNT_MANAGER"

type Selection struct {
	Facet              domain.Facet
	Value              string
	Search             string
	SelectedApp        string
	PreferredOwnerRole string
}

// Apply returns the rows matching sel in their original relative order.
// rows is never modified. A non-empty SelectedApp replaces the facet and
// search entirely with a location match.
func Apply(rows []domain.WorkingRow, sel Selection) []domain.WorkingRow {
	if selected := strings.TrimSpace(sel.SelectedApp); selected != "" {
		return keep(rows, func(r domain.WorkingRow) bool {
			return r.Location == selected
		})
	}

	value := ResolveValue(rows, sel)
	match := facetMatcher(sel.Facet, value)
	out := keep(rows, match)

	term := strings.ToLower(strings.TrimSpace(sel.Search))
	if term == "" {
		return out
	}
	return keep(out, func(r domain.WorkingRow) bool {
		return strings.Contains(strings.ToLower(r.Title), term) ||
			strings.Contains(strings.ToLower(r.Name), term) ||
			strings.Contains(strings.ToLower(r.Location), term)
	})
}

// ResolveValue returns the effective facet value. Only the owner role facet
// has no "All" choice, so an empty selection there falls back to the
// preferred role when present, else the first role in sorted order.
func ResolveValue(rows []domain.WorkingRow, sel Selection) string {
	value := strings.TrimSpace(sel.Value)
	if sel.Facet != domain.FacetOwnerRole {
		if value == "" {
			return domain.OptionAll
		}
		return value
	}
	if value != "" {
		return value
	}
	return defaultOwnerRole(distinct(rows, ownerRole), sel.PreferredOwnerRole)
}

// Options lists the selectable values for facet over rows.
func Options(rows []domain.WorkingRow, facet domain.Facet, preferredOwnerRole string) domain.FacetOptions {
	out := domain.FacetOptions{Facet: facet, Default: domain.OptionAll}

	switch facet {
	case domain.FacetOrganization:
		hierarchies := make([]string, 0, len(rows))
		for _, r := range rows {
			if r.OrgHierarchy != nil {
				hierarchies = append(hierarchies, *r.OrgHierarchy)
			}
		}
		out.Options = withPrefix(orghierarchy.ParseLeaders(hierarchies), domain.OptionAll)
	case domain.FacetManager:
		out.Options = withPrefix(distinct(rows, manager), domain.OptionAll)
	case domain.FacetOwnerRole:
		roles := distinct(rows, ownerRole)
		out.Options = roles
		out.Default = defaultOwnerRole(roles, preferredOwnerRole)
	case domain.FacetCreator:
		out.Options = withPrefix(distinct(rows, creator), domain.OptionAll)
	case domain.FacetDatabase:
		out.Options = withPrefix(distinct(rows, database), domain.OptionAll)
	case domain.FacetCategory:
		out.Options = withPrefix(distinct(rows, category), domain.OptionAll, domain.OptionUncategorized)
	case domain.FacetStatus:
		out.Options = withPrefix(distinct(rows, status), domain.OptionAll, domain.OptionNotSet)
	default:
		out.Options = []string{}
		out.Default = ""
	}
	return out
}

func facetMatcher(facet domain.Facet, value string) func(domain.WorkingRow) bool {
	all := value == domain.OptionAll
	identity := func(domain.WorkingRow) bool { return true }

	switch facet {
	case domain.FacetOrganization:
		if all {
			return identity
		}
		return func(r domain.WorkingRow) bool {
			return r.OrgHierarchy != nil && orghierarchy.Contains(*r.OrgHierarchy, value)
		}
	case domain.FacetManager:
		if all {
			return identity
		}
		return equals(manager, value)
	case domain.FacetOwnerRole:
		return equals(ownerRole, value)
	case domain.FacetCreator:
		if all {
			return func(r domain.WorkingRow) bool { return r.CreatedByUser != nil }
		}
		return equals(creator, value)
	case domain.FacetDatabase:
		if all {
			return identity
		}
		return equals(database, value)
	case domain.FacetCategory:
		return enumMatcher(category, value, domain.OptionUncategorized)
	case domain.FacetStatus:
		return enumMatcher(status, value, domain.OptionNotSet)
	default:
		return identity
	}
}

func enumMatcher(field func(domain.WorkingRow) *string, value, unset string) func(domain.WorkingRow) bool {
	switch value {
	case domain.OptionAll:
		return func(domain.WorkingRow) bool { return true }
	case unset:
		return func(r domain.WorkingRow) bool {
			v := field(r)
			return v == nil || *v == ""
		}
	default:
		return equals(field, value)
	}
}

func equals(field func(domain.WorkingRow) *string, value string) func(domain.WorkingRow) bool {
	return func(r domain.WorkingRow) bool {
		v := field(r)
		return v != nil && *v == value
	}
}

func keep(rows []domain.WorkingRow, match func(domain.WorkingRow) bool) []domain.WorkingRow {
	out := make([]domain.WorkingRow, 0, len(rows))
	for _, r := range rows {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func distinct(rows []domain.WorkingRow, field func(domain.WorkingRow) *string) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		v := field(r)
		if v == nil || *v == "" {
			continue
		}
		seen[*v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func defaultOwnerRole(roles []string, preferred string) string {
	if preferred == "" {
		preferred = DefaultOwnerRole
	}
	for _, r := range roles {
		if r == preferred {
			return r
		}
	}
	if len(roles) > 0 {
		return roles[0]
	}
	return ""
}

func withPrefix(values []string, prefix ...string) []string {
	out := make([]string, 0, len(prefix)+len(values))
	out = append(out, prefix...)
	return append(out, values...)
}

func manager(r domain.WorkingRow) *string   { return r.ManagerName }
func ownerRole(r domain.WorkingRow) *string { return r.OwnerRole }
func creator(r domain.WorkingRow) *string   { return r.CreatedByUser }
func category(r domain.WorkingRow) *string  { return r.Category }
func status(r domain.WorkingRow) *string    { return r.Status }

func database(r domain.WorkingRow) *string {
	if r.DatabaseName == "" {
		return nil
	}
	name := r.DatabaseName
	return &name
}

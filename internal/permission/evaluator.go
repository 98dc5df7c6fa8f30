// Package permission decides whether a viewer may edit an app's metadata.
package permission

import (
	"strings"

	"github.com/smallbiznis/appinventory/internal/inventory/domain"
	"github.com/smallbiznis/appinventory/internal/orghierarchy"
)

// CanEdit reports whether viewer may edit metadata for app.
//
// Records with neither a creator nor an org hierarchy are never editable.
// Otherwise the viewer qualifies as the creator, or when their login or
// display name occurs anywhere in the org hierarchy string. The hierarchy
// match is a substring match, so "Ann" also matches "Anna".
func CanEdit(app domain.AppRecord, viewer domain.Viewer) bool {
	creator := trimmed(app.CreatedByUser)
	hierarchy := trimmed(app.OrgHierarchy)
	if creator == "" && hierarchy == "" {
		return false
	}

	login := strings.TrimSpace(viewer.Login)
	if login != "" && creator == login {
		return true
	}
	if orghierarchy.Contains(hierarchy, login) {
		return true
	}
	return orghierarchy.Contains(hierarchy, trimmed(viewer.DisplayName))
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

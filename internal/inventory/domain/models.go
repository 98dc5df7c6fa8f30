package domain

import (
	"strings"
	"time"
)

// AppRecord is one hosted app as reported by the warehouse inventory view.
type AppRecord struct {
	Location        string     `gorm:"column:location" json:"location" csv:"location"`
	Name            string     `gorm:"column:name" json:"name" csv:"name"`
	Title           string     `gorm:"column:title" json:"title" csv:"title"`
	CreatedOn       time.Time  `gorm:"column:created_on" json:"created_on" csv:"created_on"`
	LastUpdatedTime *time.Time `gorm:"column:last_updated_time" json:"last_updated_time,omitempty" csv:"last_updated_time,omitempty"`
	CreatedByUser   *string    `gorm:"column:created_by_user" json:"created_by_user,omitempty" csv:"created_by_user,omitempty"`
	CreatorFullName *string    `gorm:"column:creator_full_name" json:"creator_full_name,omitempty" csv:"creator_full_name,omitempty"`
	ManagerName     *string    `gorm:"column:manager_name" json:"manager_name,omitempty" csv:"manager_name,omitempty"`
	OwnerRole       *string    `gorm:"column:owner_role" json:"owner_role,omitempty" csv:"owner_role,omitempty"`
	DatabaseName    string     `gorm:"column:database_name" json:"database_name" csv:"database_name"`
	OrgHierarchy    *string    `gorm:"column:org_hierarchy" json:"org_hierarchy,omitempty" csv:"org_hierarchy,omitempty"`
}

// UsageRecord aggregates executions of one app over the trailing 90 days.
type UsageRecord struct {
	AppFQN         string `gorm:"column:app_fqn" json:"app_fqn"`
	ExecutionCount int64  `gorm:"column:execution_count" json:"execution_count"`
	UniqueUsers    int64  `gorm:"column:unique_users" json:"unique_users"`
}

// WorkingRow is an AppRecord joined with its metadata, usage and edit right.
type WorkingRow struct {
	AppRecord

	ResolvedTitle     string       `json:"resolved_title" csv:"resolved_title"`
	AppURL            string       `json:"app_url" csv:"app_url"`
	Description       *string      `json:"description,omitempty" csv:"description,omitempty"`
	Category          *string      `json:"category,omitempty" csv:"category,omitempty"`
	Status            *string      `json:"status,omitempty" csv:"status,omitempty"`
	MetadataUpdatedBy *string      `json:"metadata_updated_by,omitempty" csv:"metadata_updated_by,omitempty"`
	MetadataUpdatedAt *time.Time   `json:"metadata_updated_at,omitempty" csv:"metadata_updated_at,omitempty"`
	CanEdit           bool         `json:"can_edit" csv:"can_edit"`
	Usage             *UsageRecord `json:"usage,omitempty" csv:"-"`
}

// Viewer identifies who is browsing. DisplayName is resolved from the
// directory and may be unknown.
type Viewer struct {
	Login       string  `json:"login"`
	DisplayName *string `json:"display_name,omitempty"`
}

type Scope string

const (
	ScopeTeam Scope = "team"
	ScopeAll  Scope = "all"
)

func ParseScope(raw string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ScopeTeam:
		return ScopeTeam, nil
	case ScopeAll:
		return ScopeAll, nil
	default:
		return "", ErrInvalidScope
	}
}

type Facet string

const (
	FacetOrganization Facet = "organization"
	FacetManager      Facet = "manager"
	FacetOwnerRole    Facet = "owner_role"
	FacetCreator      Facet = "creator"
	FacetDatabase     Facet = "database"
	FacetCategory     Facet = "category"
	FacetStatus       Facet = "status"
)

// Facets lists every facet in display order.
var Facets = []Facet{
	FacetOrganization,
	FacetManager,
	FacetOwnerRole,
	FacetCreator,
	FacetDatabase,
	FacetCategory,
	FacetStatus,
}

func ParseFacet(raw string) (Facet, error) {
	value := Facet(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return FacetOrganization, nil
	}
	for _, f := range Facets {
		if f == value {
			return f, nil
		}
	}
	return "", ErrInvalidFacet
}

const (
	OptionAll           = "All"
	OptionUncategorized = "Uncategorized"
	OptionNotSet        = "Not Set"
)

// SessionState carries every per-request browsing choice through the pipeline.
type SessionState struct {
	Scope       Scope
	Facet       Facet
	FacetValue  string
	Search      string
	SelectedApp string
	Viewer      Viewer
}

// PendingEdit is an unsaved metadata draft for one location. It lives until
// the viewer saves or discards it.
type PendingEdit struct {
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type FacetOptions struct {
	Facet   Facet    `json:"facet"`
	Options []string `json:"options"`
	Default string   `json:"default"`
}

type WeeklyCount struct {
	WeekStart time.Time `json:"week_start"`
	Count     int       `json:"count"`
}

type TopApp struct {
	AppFQN         string `json:"app_fqn"`
	AppName        string `json:"app_name"`
	Location       string `json:"location,omitempty"`
	ExecutionCount int64  `json:"execution_count"`
	UniqueUsers    int64  `json:"unique_users"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Stats struct {
	TotalApps               int `json:"total_apps"`
	AppsWithCreator         int `json:"apps_with_creator"`
	AppsWithOrg             int `json:"apps_with_org"`
	FilteredApps            int `json:"filtered_apps"`
	FilteredAppsWithCreator int `json:"filtered_apps_with_creator"`
}

type Charts struct {
	CreatedPerWeek []WeeklyCount `json:"created_per_week"`
	TopUsage       []TopApp      `json:"top_usage"`
	ByDatabase     []LabelCount  `json:"by_database"`
	ByManager      []LabelCount  `json:"by_manager"`
}

type SelectedAppDetail struct {
	Location       string `json:"location"`
	ExecutionCount int64  `json:"execution_count"`
	UniqueUsers    int64  `json:"unique_users"`
}

// View is the fully derived result of one browse request.
type View struct {
	Empty      bool               `json:"empty"`
	Scope      Scope              `json:"scope"`
	Facet      Facet              `json:"facet"`
	FacetValue string             `json:"facet_value"`
	Search     string             `json:"search,omitempty"`
	Rows       []WorkingRow       `json:"rows"`
	Stats      Stats              `json:"stats"`
	Charts     Charts             `json:"charts"`
	Selected   *SelectedAppDetail `json:"selected,omitempty"`
}

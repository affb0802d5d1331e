package models

// Role is a named permission grouping. Role names are globally unique.
// A role accumulates groups through RoleToGroup association rows, which it
// owns: deleting the role removes them.
type Role struct {
	ID          uint   `gorm:"column:role_id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;size:255;uniqueIndex;not null"`
	Description string `gorm:"column:description;size:1000"`

	RoleGroups []RoleToGroup `gorm:"foreignKey:RoleID"`
}

// TableName maps the record onto the persisted table.
func (Role) TableName() string { return "role" }

// NewRole builds an unpersisted role.
func NewRole(name, description string) *Role {
	return &Role{
		Name:        name,
		Description: description,
	}
}

// Groups projects the loaded association rows onto their target groups,
// keeping the join-row type out of normal call sites.
func (r *Role) Groups() []*Group {
	groups := make([]*Group, 0, len(r.RoleGroups))
	for i := range r.RoleGroups {
		if group := r.RoleGroups[i].Group; group != nil {
			groups = append(groups, group)
		}
	}
	return groups
}

// ToDict projects the role into a plain map. Unless "groups" is excluded
// the associated groups are serialized (with empty exclusion) and inlined
// under that key.
func (r *Role) ToDict(exclude ...string) map[string]any {
	out := dictValues("role", r.fields(), exclude)
	if !isExcluded(exclude, "groups") {
		loaded := r.Groups()
		groups := make([]map[string]any, 0, len(loaded))
		for _, group := range loaded {
			groups = append(groups, group.ToDict())
		}
		out["groups"] = groups
	}
	return out
}

func (r *Role) fields() map[string]any {
	out := map[string]any{
		"name":        r.Name,
		"description": r.Description,
	}
	if r.ID != 0 {
		out["id"] = r.ID
	}
	return out
}

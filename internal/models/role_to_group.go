package models

// RoleToGroup is the association row linking a role to a group. Both foreign
// keys form the composite primary key. Rows are owned by the role side: the
// persistence layer deletes them in the same transaction that deletes the
// role.
type RoleToGroup struct {
	GroupID uint `gorm:"column:group_id;primaryKey;autoIncrement:false"`
	RoleID  uint `gorm:"column:role_id;primaryKey;autoIncrement:false"`

	Role  *Role  `gorm:"foreignKey:RoleID"`
	Group *Group `gorm:"foreignKey:GroupID"`
}

// TableName maps the record onto the persisted table.
func (RoleToGroup) TableName() string { return "role_group" }

// NewRoleToGroup links the given role and group. Either side may be nil
// when only the raw ids are known.
func NewRoleToGroup(role *Role, group *Group) *RoleToGroup {
	row := &RoleToGroup{
		Role:  role,
		Group: group,
	}
	if role != nil {
		row.RoleID = role.ID
	}
	if group != nil {
		row.GroupID = group.ID
	}
	return row
}

// ToDict projects the association row's key pair into a plain map.
func (rg *RoleToGroup) ToDict(exclude ...string) map[string]any {
	return dictValues("role_group", map[string]any{
		"group_id": rg.GroupID,
		"role_id":  rg.RoleID,
	}, exclude)
}

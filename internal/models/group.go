package models

// Group is a group defined inside an external application. Group names may
// repeat across apps, so the owning app reference disambiguates them; the
// app_group_id carries the application's own identifier for the group.
type Group struct {
	ID         uint   `gorm:"column:group_id;primaryKey;autoIncrement"`
	Name       string `gorm:"column:name;size:255"`
	AppGroupID string `gorm:"column:app_group_id;size:255"`
	AppID      uint   `gorm:"column:app_id;not null"`

	App *App `gorm:"foreignKey:AppID"`
}

// TableName maps the record onto the persisted table.
func (Group) TableName() string { return "group" }

// NewGroup builds an unpersisted group belonging to the given app.
func NewGroup(name, appGroupID string, appID uint) *Group {
	return &Group{
		Name:       name,
		AppGroupID: appGroupID,
		AppID:      appID,
	}
}

// ToDict projects the group into a plain map.
func (g *Group) ToDict(exclude ...string) map[string]any {
	return dictValues("group", g.fields(), exclude)
}

func (g *Group) fields() map[string]any {
	out := map[string]any{
		"name":         g.Name,
		"app_group_id": g.AppGroupID,
		"app_id":       g.AppID,
	}
	if g.ID != 0 {
		out["id"] = g.ID
	}
	return out
}

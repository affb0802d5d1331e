package models

// App is an external application whose groups can be granted through roles.
// The access token is held in memory only: it is never persisted and never
// appears in serialized output.
type App struct {
	ID   uint   `gorm:"column:app_id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:255"`

	Token string `gorm:"-"`
}

// TableName maps the record onto the persisted table.
func (App) TableName() string { return "app" }

// NewApp builds an unpersisted app. The token may be empty when the
// application is registered before credentials are issued.
func NewApp(name, token string) *App {
	return &App{
		Name:  name,
		Token: token,
	}
}

// ToDict projects the app into a plain map. The token is excluded
// unconditionally; the caller's exclusion set is copied before the token
// key is appended, so a set reused across calls is never observed mutated.
func (a *App) ToDict(exclude ...string) map[string]any {
	withToken := make([]string, 0, len(exclude)+1)
	withToken = append(withToken, exclude...)
	withToken = append(withToken, "token")
	return dictValues("app", a.fields(), withToken)
}

func (a *App) fields() map[string]any {
	out := map[string]any{
		"name":  a.Name,
		"token": a.Token,
	}
	if a.ID != 0 {
		out["id"] = a.ID
	}
	return out
}

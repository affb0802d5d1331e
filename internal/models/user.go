package models

// User is an account that can sign in to the application. The email address
// is the login identity and carries a unique constraint; the numeric id is
// assigned by the database on first persist.
type User struct {
	ID        uint   `gorm:"column:user_id;primaryKey;autoIncrement"`
	Email     string `gorm:"column:email;size:255;uniqueIndex;not null"`
	FirstName string `gorm:"column:first_name;size:255"`
	LastName  string `gorm:"column:last_name;size:255"`
	Username  string `gorm:"column:username;size:255"`

	// Password is stored exactly as supplied. If the surrounding system
	// hashes credentials it must do so before the value reaches this layer.
	Password string `gorm:"column:password;size:255"`

	IsAdmin bool `gorm:"column:is_admin"`
}

// TableName maps the record onto the persisted table.
func (User) TableName() string { return "user" }

// NewUser builds an unpersisted user with the required credential fields.
func NewUser(email, firstName, lastName, username, password string, isAdmin bool) *User {
	return &User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Password:  password,
		IsAdmin:   isAdmin,
	}
}

// ToDict projects the user's current attribute state into a plain map.
// Unlike the other record kinds the exclusion set is a required argument;
// pass nil to exclude nothing. Because of the differing signature *User
// does not satisfy Serializable.
func (u *User) ToDict(exclude []string) map[string]any {
	return dictValues("user", u.fields(), exclude)
}

func (u *User) fields() map[string]any {
	out := map[string]any{
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"username":   u.Username,
		"password":   u.Password,
		"is_admin":   u.IsAdmin,
	}
	if u.ID != 0 {
		out["id"] = u.ID
	}
	return out
}

package models

// Employee is an organisational identity that accumulates roles through
// EmployeeToRole association rows. The rows are owned by the employee:
// deleting the employee removes them.
type Employee struct {
	ID        uint   `gorm:"column:employee_id;primaryKey;autoIncrement"`
	Email     string `gorm:"column:email;size:255"`
	FirstName string `gorm:"column:first_name;size:255"`
	LastName  string `gorm:"column:last_name;size:255"`
	SlackID   string `gorm:"column:slack_user_id;size:255"`

	EmployeeRoles []EmployeeToRole `gorm:"foreignKey:EmployeeID"`
}

// TableName maps the record onto the persisted table.
func (Employee) TableName() string { return "employee" }

// NewEmployee builds an unpersisted employee. The slack id may be empty when
// the employee has no chat-system account yet.
func NewEmployee(email, firstName, lastName, slackID string) *Employee {
	return &Employee{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		SlackID:   slackID,
	}
}

// Roles projects the loaded association rows onto their target roles,
// keeping the join-row type out of normal call sites.
func (e *Employee) Roles() []*Role {
	roles := make([]*Role, 0, len(e.EmployeeRoles))
	for i := range e.EmployeeRoles {
		if role := e.EmployeeRoles[i].Role; role != nil {
			roles = append(roles, role)
		}
	}
	return roles
}

// ToDict projects the employee into a plain map. Unless "roles" is excluded
// the associated roles are serialized (with empty exclusion) and inlined
// under that key.
func (e *Employee) ToDict(exclude ...string) map[string]any {
	out := dictValues("employee", e.fields(), exclude)
	if !isExcluded(exclude, "roles") {
		loaded := e.Roles()
		roles := make([]map[string]any, 0, len(loaded))
		for _, role := range loaded {
			roles = append(roles, role.ToDict())
		}
		out["roles"] = roles
	}
	return out
}

func (e *Employee) fields() map[string]any {
	out := map[string]any{
		"email":      e.Email,
		"first_name": e.FirstName,
		"last_name":  e.LastName,
		"slack_id":   e.SlackID,
	}
	if e.ID != 0 {
		out["id"] = e.ID
	}
	return out
}

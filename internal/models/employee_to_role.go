package models

// EmployeeToRole is the association row linking an employee to a role.
// Both foreign keys form the composite primary key. Rows are owned by the
// employee side: the persistence layer deletes them in the same transaction
// that deletes the employee.
type EmployeeToRole struct {
	EmployeeID uint `gorm:"column:employee_id;primaryKey;autoIncrement:false"`
	RoleID     uint `gorm:"column:role_id;primaryKey;autoIncrement:false"`

	Employee *Employee `gorm:"foreignKey:EmployeeID"`
	Role     *Role     `gorm:"foreignKey:RoleID"`
}

// TableName maps the record onto the persisted table.
func (EmployeeToRole) TableName() string { return "employee_role" }

// NewEmployeeToRole links the given employee and role. Either side may be
// nil when only the raw ids are known.
func NewEmployeeToRole(employee *Employee, role *Role) *EmployeeToRole {
	row := &EmployeeToRole{
		Employee: employee,
		Role:     role,
	}
	if employee != nil {
		row.EmployeeID = employee.ID
	}
	if role != nil {
		row.RoleID = role.ID
	}
	return row
}

// ToDict projects the association row's key pair into a plain map.
func (er *EmployeeToRole) ToDict(exclude ...string) map[string]any {
	return dictValues("employee_role", map[string]any{
		"employee_id": er.EmployeeID,
		"role_id":     er.RoleID,
	}, exclude)
}

package employee

type CreateEmployeeRequest struct {
	EmployeeNumber    string `json:"employee_number"`
	FullName          string `json:"full_name" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	Phone             string `json:"phone"`
	PrimaryPositionID string `json:"primary_position_id" binding:"required,uuid"`
}

type UpdateEmployeeRequest struct {
	FullName          string `json:"full_name" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	Phone             string `json:"phone"`
	PrimaryPositionID string `json:"primary_position_id" binding:"required,uuid"`
}

type EmployeeResponse struct {
	ID                   string `json:"id"`
	EmployeeNumber       string `json:"employee_number"`
	FullName             string `json:"full_name"`
	Email                string `json:"email"`
	Phone                string `json:"phone,omitempty"`
	CompanyID            string `json:"company_id"`
	PrimaryPositionID    string `json:"primary_position_id"`
	PrimaryDepartmentID  string `json:"primary_department_id"`
	SupervisorPositionID string `json:"supervisor_position_id,omitempty"`
}

// Profile fields an approved change request may touch.
const (
	ProfileFieldFullName        = "full_name"
	ProfileFieldEmail           = "email"
	ProfileFieldPhone           = "phone"
	ProfileFieldPrimaryPosition = "primary_position_id"
)

var ProfileFields = []string{
	ProfileFieldFullName,
	ProfileFieldEmail,
	ProfileFieldPhone,
	ProfileFieldPrimaryPosition,
}

type ResyncResponse struct {
	PositionID           string `json:"position_id"`
	SupervisorPositionID string `json:"supervisor_position_id,omitempty"`
	Updated              int64  `json:"updated"`
}

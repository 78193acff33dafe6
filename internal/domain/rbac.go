package domain

// EnforceRequest is shared by the rbac service and the HTTP middleware so
// neither has to import the other.
type EnforceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	CompanyID  string `json:"company_id" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type RolesResponse struct {
	EmployeeID string   `json:"employee_id"`
	Roles      []string `json:"roles"`
}

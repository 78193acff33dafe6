package position

type CreatePositionRequest struct {
	Name                string  `json:"name" binding:"required"`
	DepartmentID        string  `json:"department_id" binding:"required,uuid"`
	ReportsToPositionID *string `json:"reports_to_position_id" binding:"omitempty,uuid"`
}

type UpdatePositionRequest struct {
	Name                string  `json:"name" binding:"required"`
	DepartmentID        string  `json:"department_id" binding:"required,uuid"`
	ReportsToPositionID *string `json:"reports_to_position_id" binding:"omitempty,uuid"`
}

type PositionResponse struct {
	ID                  string `json:"id"`
	CompanyID           string `json:"company_id"`
	DepartmentID        string `json:"department_id"`
	DepartmentName      string `json:"department_name,omitempty"`
	Name                string `json:"name"`
	ReportsToPositionID string `json:"reports_to_position_id,omitempty"`
	CreatedAt           string `json:"created_at,omitempty"`
	UpdatedAt           string `json:"updated_at,omitempty"`
}

type SupervisorResponse struct {
	PositionID           string   `json:"position_id"`
	SupervisorPositionID *string  `json:"supervisor_position_id"`
	TopLevel             bool     `json:"top_level"`
	Chain                []string `json:"chain,omitempty"`
}

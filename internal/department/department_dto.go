package department

type DepartmentResponse struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
}

type CountResponse struct {
	TotalDepartments int64 `json:"totalDepartments"`
}

func mapToResponse(d Department) DepartmentResponse {
	return DepartmentResponse{
		DepartmentID: d.DepartmentID,
		Name:         d.Name,
		Description:  d.Description,
	}
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}

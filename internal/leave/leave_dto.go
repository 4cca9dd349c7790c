package leave

import "time"

type CreateLeaveRequest struct {
	Reason    string `json:"reason" binding:"required,max=500"`
	Type      string `json:"type" binding:"required,max=30"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// UpdateLeaveRequest replaces every editable field of a pending leave.
type UpdateLeaveRequest struct {
	Reason    string `json:"reason" binding:"required,max=500"`
	Type      string `json:"type" binding:"required,max=30"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateLeaveResponse struct {
	LeaveID string `json:"leave_id"`
}

type LeaveResponse struct {
	LeaveID    string `json:"leave_id"`
	EmployeeID string `json:"employee_id"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Reason     string `json:"reason"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
	AppliedAt  string `json:"applied_at"`
	UpdatedAt  string `json:"updated_at"`
}

type StatusCountsResponse struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

func mapToResponse(d LeaveDetail) LeaveResponse {
	return LeaveResponse{
		LeaveID:    d.LeaveID,
		EmployeeID: d.EmployeeID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Reason:     d.Reason,
		Type:       d.Type,
		StartDate:  d.StartDate.Format(dateLayout),
		EndDate:    d.EndDate.Format(dateLayout),
		Status:     d.Status,
		AppliedAt:  d.AppliedAt.Format(time.RFC3339),
		UpdatedAt:  d.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(rows []LeaveDetail) []LeaveResponse {
	resp := make([]LeaveResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp
}

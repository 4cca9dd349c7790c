package rbac

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Resources guarded by the enforcer.
const (
	ResourcePayroll    = "payroll"
	ResourceEmployee   = "employee"
	ResourceDepartment = "department"
	ResourceLeave      = "leave"
)

// Actions. "*" in a policy matches any action.
const (
	ActionRead     = "read"
	ActionReadOwn  = "read_own"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionGenerate = "generate"
	ActionManage   = "manage"
	ActionApprove  = "approve"
	ActionAny      = "*"
)

type EnforceRequest struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type Permission struct {
	Role     string
	Resource string
	Action   string
}

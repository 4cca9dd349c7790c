package events

const (
	EmployeeLifecycleTopic = "staffly.employee.lifecycle.v1"
	PayrollLifecycleTopic  = "staffly.payroll.lifecycle.v1"
)

// Topics lists every topic the audit consumer subscribes to.
func Topics() []string {
	return []string{EmployeeLifecycleTopic, PayrollLifecycleTopic}
}

const (
	AggregateEmployee = "employee"
	AggregatePayroll  = "payroll"
)

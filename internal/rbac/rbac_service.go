package rbac

import (
	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.SyncedEnforcer
	logger   *zap.Logger
}

// DefaultPolicy is the static permission table. Admin inherits every User grant.
func DefaultPolicy() []Permission {
	return []Permission{
		{RoleUser, ResourcePayroll, ActionReadOwn},
		{RoleUser, ResourceEmployee, ActionReadOwn},
		{RoleUser, ResourceDepartment, ActionRead},
		{RoleUser, ResourceLeave, ActionRead},
		{RoleUser, ResourceLeave, ActionReadOwn},
		{RoleUser, ResourceLeave, ActionCreate},
		{RoleUser, ResourceLeave, ActionUpdate},
		{RoleUser, ResourceLeave, ActionDelete},

		{RoleAdmin, ResourcePayroll, ActionAny},
		{RoleAdmin, ResourceEmployee, ActionAny},
		{RoleAdmin, ResourceLeave, ActionApprove},
	}
}

func NewService(enforcer *casbin.SyncedEnforcer, policy []Permission, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	enforcer.ClearPolicy()
	if _, err := enforcer.AddGroupingPolicy(RoleAdmin, RoleUser); err != nil {
		return nil, err
	}
	for _, p := range policy {
		if _, err := enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return nil, err
		}
	}
	l.Info("rbac policy loaded", zap.Int("permissions", len(policy)))

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	if !allowed {
		s.logger.Debug("rbac denied",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
		)
	}
	return allowed, nil
}

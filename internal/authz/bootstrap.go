package authz

import (
	"fmt"

	"github.com/franchise-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
// system_admin 全量放行；门店经理管理本店库存与上架；门店员工只读 + 订单驱动的库存操作。
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleSystemAdmin,
			Policies: []Policy{
				{Object: "/*", Action: "*"},
			},
		},
		{
			Role: constants.RoleFranchiseStaff,
			Policies: []Policy{
				{Object: "/franchises", Action: "GET"},
				{Object: "/franchises/:id", Action: "GET"},
				{Object: "/categories", Action: "GET"},
				{Object: "/categories/:id", Action: "GET"},
				{Object: "/products", Action: "GET"},
				{Object: "/products/:id", Action: "GET"},
				{Object: "/product-franchises", Action: "GET"},
				{Object: "/product-franchises/:id", Action: "GET"},
				{Object: "/inventories", Action: "GET"},
				{Object: "/inventories/:id", Action: "GET"},
				{Object: "/inventories/:id/logs", Action: "GET"},
				{Object: "/inventories/low-stock", Action: "GET"},
				{Object: "/inventories/stock/reserve", Action: "POST"},
				{Object: "/inventories/stock/release", Action: "POST"},
				{Object: "/inventories/stock/deduct", Action: "POST"},
			},
		},
		{
			Role:     constants.RoleFranchiseManager,
			Inherits: []string{constants.RoleFranchiseStaff},
			Policies: []Policy{
				{Object: "/product-franchises", Action: "POST"},
				{Object: "/product-franchises/:id", Action: "*"},
				{Object: "/product-franchises/:id/status", Action: "PUT"},
				{Object: "/inventories", Action: "POST"},
				{Object: "/inventories/:id", Action: "*"},
				{Object: "/inventories/stock/adjust", Action: "POST"},
				{Object: "/inventories/logs", Action: "GET"},
				{Object: "/audit-logs", Action: "GET"},
				{Object: "/audit-logs/:entity_type/:entity_id", Action: "GET"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}

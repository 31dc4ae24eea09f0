package repository

import "time"

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	FranchiseID uint
	Status      string
	OnlyActive  bool
}

// FranchiseListFilter 查询门店列表的过滤条件
type FranchiseListFilter struct {
	Page       int
	PageSize   int
	Keyword    string
	OnlyActive bool
}

// CategoryListFilter 查询分类列表的过滤条件
type CategoryListFilter struct {
	Page       int
	PageSize   int
	Keyword    string
	OnlyActive bool
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	Keyword      string
	OnlyActive   bool
	WithCategory bool
}

// ProductFranchiseListFilter 查询门店在售单品列表的过滤条件
type ProductFranchiseListFilter struct {
	Page        int
	PageSize    int
	ProductID   uint
	FranchiseID uint
	Size        string
	OnlyActive  bool
}

// InventoryListFilter 查询库存列表的过滤条件
type InventoryListFilter struct {
	Page               int
	PageSize           int
	ProductFranchiseID uint
	FranchiseID        uint
	ProductID          uint
	OnlyActive         bool
	IncludeDeleted     bool
}

// AuditLogListFilter 查询审计日志列表的过滤条件
type AuditLogListFilter struct {
	Page        int
	PageSize    int
	EntityType  string
	EntityID    uint
	Action      string
	ChangedBy   uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

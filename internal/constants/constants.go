package constants

// 用户角色常量
const (
	RoleSystemAdmin      = "system_admin"
	RoleFranchiseManager = "franchise_manager"
	RoleFranchiseStaff   = "franchise_staff"
)

// 用户状态常量
const (
	UserStatusActive = "active"
	UserStatusLocked = "locked"
)

// 库存流水类型常量
const (
	InventoryTypeReserve = "RESERVE"
	InventoryTypeRelease = "RELEASE"
	InventoryTypeDeduct  = "DEDUCT"
	InventoryTypeAdjust  = "ADJUST"
)

// 库存流水来源常量
const (
	InventoryReferenceOrder  = "ORDER"
	InventoryReferenceManual = "MANUAL"
	InventoryReferenceImport = "IMPORT"
	InventoryReferenceRefund = "REFUND"
)

// InventoryReferenceTypes 全部库存流水来源
var InventoryReferenceTypes = []string{
	InventoryReferenceOrder,
	InventoryReferenceManual,
	InventoryReferenceImport,
	InventoryReferenceRefund,
}

// 审计日志动作常量
const (
	AuditActionCreate       = "CREATE"
	AuditActionUpdate       = "UPDATE"
	AuditActionSoftDelete   = "SOFT_DELETE"
	AuditActionRestore      = "RESTORE"
	AuditActionChangeStatus = "CHANGE_STATUS"
)

// 审计日志实体类型常量
const (
	AuditEntityUser             = "USER"
	AuditEntityFranchise        = "FRANCHISE"
	AuditEntityCategory         = "CATEGORY"
	AuditEntityProduct          = "PRODUCT"
	AuditEntityProductFranchise = "PRODUCT_FRANCHISE"
	AuditEntityInventory        = "INVENTORY"
)

// DefaultAlertThreshold 默认低库存告警阈值
const DefaultAlertThreshold = 10

// 队列名称常量
const (
	QueueDefault = "default"
)

// 队列任务类型常量
const (
	TaskLowStockAlert = "inventory:low_stock_alert"
)

// 验证码场景常量
const (
	CaptchaSceneLogin = "login"
)

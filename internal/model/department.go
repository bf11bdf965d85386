package model

// 部门类型枚举
const (
	DeptTypeCompany    = "company"
	DeptTypeDepartment = "department"
	DeptTypeTeam       = "team"
	DeptTypeOther      = "other"
)

// DeptTypeDisplay 部门类型的展示名
var DeptTypeDisplay = map[string]string{
	DeptTypeCompany:    "公司",
	DeptTypeDepartment: "部门",
	DeptTypeTeam:       "小组",
	DeptTypeOther:      "其他",
}

// ValidDeptType 判断部门类型是否合法
func ValidDeptType(t string) bool {
	_, ok := DeptTypeDisplay[t]
	return ok
}

// Dept 部门表 — 对应 core_dept
//
// 层级不变式：
//   - 根部门 level=0, path="/"
//   - 非根部门 level = 父.level+1, path = 父.path + 父.id + "/"
//   - path 以定长 UUID 拼接，后代查询用 path 前缀匹配不会误中
type Dept struct {
	DeptID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string  `gorm:"type:varchar(64);not null"                      json:"name"`
	Code        *string `gorm:"type:varchar(32)"                               json:"code,omitempty"`
	DeptType    string  `gorm:"type:varchar(20);not null;default:'department'" json:"dept_type"`
	Phone       *string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	Email       *string `gorm:"type:varchar(64)"                               json:"email,omitempty"`
	Status      bool    `gorm:"not null;default:true"                          json:"status"`
	Description *string `gorm:"type:text"                                      json:"description,omitempty"`
	ParentID    *string `gorm:"type:uuid;index"                                json:"parent_id,omitempty"`
	LeadID      *string `gorm:"type:uuid"                                      json:"lead_id,omitempty"`
	Sort        int     `gorm:"not null;default:0"                             json:"sort"`
	Level       int     `gorm:"not null;default:0"                             json:"level"`
	Path        string  `gorm:"type:varchar(500);not null;default:'/'"         json:"path"`
	VersionedModel
}

// TableName 指定表名
func (Dept) TableName() string { return "core_dept" }

// DeptTypeDisplayName 返回部门类型展示名
func (d *Dept) DeptTypeDisplayName() string {
	if name, ok := DeptTypeDisplay[d.DeptType]; ok {
		return name
	}
	return d.DeptType
}

// SubtreePrefix 后代查询使用的 path 前缀
func (d *Dept) SubtreePrefix() string {
	path := d.Path
	if path == "" {
		path = "/"
	}
	return path + d.DeptID + "/"
}

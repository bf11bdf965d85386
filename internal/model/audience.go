package model

// 公告接收范围类型（封闭枚举）
const (
	TargetAll  = "all"
	TargetDept = "dept"
	TargetRole = "role"
	TargetUser = "user"
)

// ValidTargetType 判断接收范围类型是否合法
func ValidTargetType(t string) bool {
	switch t {
	case TargetAll, TargetDept, TargetRole, TargetUser:
		return true
	}
	return false
}

// Audience 调用方的受众身份：用户 ID、所属部门、所属角色。
// 公告可见性 = 按 target_type 分派的单一匹配函数，
// 替代原先按渠道拼接的动态 OR 条件。
type Audience struct {
	UserID  string
	DeptIDs []string
	RoleIDs []string
}

// VisibleTo 判断公告的接收范围是否覆盖给定受众
func (a *Announcement) VisibleTo(aud Audience) bool {
	switch a.TargetType {
	case TargetAll:
		return true
	case TargetDept:
		for _, id := range aud.DeptIDs {
			if a.TargetIDs.Contains(id) {
				return true
			}
		}
	case TargetRole:
		for _, id := range aud.RoleIDs {
			if a.TargetIDs.Contains(id) {
				return true
			}
		}
	case TargetUser:
		return a.TargetIDs.Contains(aud.UserID)
	}
	return false
}

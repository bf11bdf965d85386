package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/model"
	"fast-admin/backend/internal/repository"
)

// ── 部门模块业务错误 ──

var (
	ErrDeptNotFound       = errors.New("部门不存在")
	ErrDeptParentNotFound = errors.New("父部门不存在")
	ErrDeptInvalidCode    = errors.New("部门编码只能包含字母、数字、下划线和横线")
	ErrDeptInvalidPhone   = errors.New("电话号码格式不正确")
	ErrDeptInvalidType    = errors.New("部门类型必须是 company/department/team/other 之一")
	ErrDeptMoveSelf       = errors.New("不能将自己设置为父部门")
	ErrDeptMoveCycle      = errors.New("不能移动到自己或子部门下")
	ErrDeptUseMove        = errors.New("不能通过更新接口变更父部门，请使用移动接口")
	ErrDeptHasChildren    = errors.New("该部门下存在子部门，无法删除")
	ErrDeptHasUsers       = errors.New("该部门下存在用户，无法删除")
)

// DeptService 部门业务接口
//
// 层级字段（level/path）只在 Create 和 Move 两个入口写入；
// Update 拒绝 parent_id 变更，保证循环检测不可绕过。
type DeptService interface {
	Create(ctx context.Context, req *dto.CreateDeptRequest, callerID string) (*dto.DeptResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DeptResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDeptRequest, callerID string) (*dto.DeptResponse, error)
	Move(ctx context.Context, deptID string, newParentID *string) error
	Delete(ctx context.Context, id string, hard bool, callerID string) error
	BatchDelete(ctx context.Context, ids []string, hard bool, callerID string) (*dto.DeptBatchDeleteResponse, error)
	BatchUpdateStatus(ctx context.Context, ids []string, status bool) (int64, error)
	GetTree(ctx context.Context, parentID *string) ([]*dto.DeptTreeNode, error)
	GetChildren(ctx context.Context, parentID string) ([]dto.DeptResponse, error)
	GetByParent(ctx context.Context, parentID *string) ([]*dto.DeptCountedNode, error)
	GetDescendants(ctx context.Context, id string) ([]dto.DeptResponse, error)
	GetAncestors(ctx context.Context, id string) ([]dto.DeptResponse, error)
	CanDelete(ctx context.Context, id string) (bool, string, error)
	Search(ctx context.Context, keyword string) ([]*dto.DeptCountedNode, error)
	GetByIDs(ctx context.Context, ids []string) ([]*dto.DeptCountedNode, error)
	Stats(ctx context.Context) (*dto.DeptStatsResponse, error)
	GetDeptUsers(ctx context.Context, deptID string, includeChildren bool) ([]dto.UserSimple, error)
	AddUsers(ctx context.Context, deptID string, userIDs []string) (int, error)
	RemoveUsers(ctx context.Context, deptID string, userIDs []string) (int, error)
	// SubtreeIDs 返回部门自身及所有后代的 ID，供用户列表按部门过滤使用
	SubtreeIDs(ctx context.Context, deptID string) ([]string, error)
}

type deptService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDeptService 创建 DeptService 实例
func NewDeptService(repo *repository.Repository, logger *zap.Logger) DeptService {
	return &deptService{repo: repo, logger: logger}
}

// ── 字段校验 ──

func validateDeptCode(code string) error {
	for _, c := range code {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '-' || c == '_':
		default:
			return ErrDeptInvalidCode
		}
	}
	return nil
}

func validateDeptPhone(phone string) error {
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			continue
		}
		if !strings.ContainsRune("-+() ", c) {
			return ErrDeptInvalidPhone
		}
	}
	return nil
}

// ────────────────────── Create ──────────────────────

func (s *deptService) Create(ctx context.Context, req *dto.CreateDeptRequest, callerID string) (*dto.DeptResponse, error) {
	deptType := req.DeptType
	if deptType == "" {
		deptType = model.DeptTypeDepartment
	}
	if !model.ValidDeptType(deptType) {
		return nil, ErrDeptInvalidType
	}
	if req.Code != nil {
		if err := validateDeptCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := validateDeptPhone(*req.Phone); err != nil {
			return nil, err
		}
	}

	// 计算层级和路径：父部门不存在时显式拒绝，不再静默落为根部门
	level := 0
	path := "/"
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err := s.repo.Dept.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDeptParentNotFound
			}
			s.logger.Error("查询父部门失败", zap.Error(err))
			return nil, err
		}
		level = parent.Level + 1
		path = parent.SubtreePrefix()
	} else {
		req.ParentID = nil
	}

	status := true
	if req.Status != nil {
		status = *req.Status
	}

	dept := &model.Dept{
		Name:        req.Name,
		Code:        req.Code,
		DeptType:    deptType,
		Phone:       req.Phone,
		Email:       req.Email,
		Status:      status,
		Description: req.Description,
		ParentID:    req.ParentID,
		LeadID:      req.LeadID,
		Sort:        req.Sort,
		Level:       level,
		Path:        path,
	}
	dept.CreatedBy = &callerID
	dept.UpdatedBy = &callerID

	if err := s.repo.Dept.Create(ctx, dept); err != nil {
		s.logger.Error("创建部门失败", zap.Error(err))
		return nil, err
	}

	return toDeptResponse(dept), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *deptService) GetByID(ctx context.Context, id string) (*dto.DeptResponse, error) {
	dept, err := s.getDept(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDeptResponse(dept), nil
}

func (s *deptService) getDept(ctx context.Context, id string) (*model.Dept, error) {
	dept, err := s.repo.Dept.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeptNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return dept, nil
}

// ────────────────────── Update ──────────────────────

func (s *deptService) Update(ctx context.Context, id string, req *dto.UpdateDeptRequest, callerID string) (*dto.DeptResponse, error) {
	dept, err := s.getDept(ctx, id)
	if err != nil {
		return nil, err
	}

	// 换父只允许走 Move（带循环检测），这里一律拒绝
	if req.ParentID != nil {
		same := dept.ParentID != nil && *dept.ParentID == *req.ParentID
		if !same {
			return nil, ErrDeptUseMove
		}
	}

	if req.DeptType != nil {
		if !model.ValidDeptType(*req.DeptType) {
			return nil, ErrDeptInvalidType
		}
		dept.DeptType = *req.DeptType
	}
	if req.Code != nil {
		if err := validateDeptCode(*req.Code); err != nil {
			return nil, err
		}
		dept.Code = req.Code
	}
	if req.Phone != nil {
		if err := validateDeptPhone(*req.Phone); err != nil {
			return nil, err
		}
		dept.Phone = req.Phone
	}
	if req.Name != nil {
		dept.Name = *req.Name
	}
	if req.Email != nil {
		dept.Email = req.Email
	}
	if req.Status != nil {
		dept.Status = *req.Status
	}
	if req.Description != nil {
		dept.Description = req.Description
	}
	if req.LeadID != nil {
		dept.LeadID = req.LeadID
	}
	if req.Sort != nil {
		dept.Sort = *req.Sort
	}
	dept.UpdatedBy = &callerID

	if err := s.repo.Dept.Save(ctx, dept); err != nil {
		s.logger.Error("更新部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toDeptResponse(dept), nil
}

// ────────────────────── Move ──────────────────────

// Move 移动部门到新父部门下。唯一允许换父的入口：
// 拒绝移动到自己、不存在的部门、自己的任何后代之下；
// 成功后以乐观锁提交，并整体重写子树的 level/path。
func (s *deptService) Move(ctx context.Context, deptID string, newParentID *string) error {
	dept, err := s.getDept(ctx, deptID)
	if err != nil {
		return err
	}

	oldPrefix := dept.SubtreePrefix()
	oldLevel := dept.Level

	if newParentID != nil && *newParentID != "" {
		if *newParentID == deptID {
			return ErrDeptMoveSelf
		}

		newParent, err := s.repo.Dept.GetByID(ctx, *newParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDeptParentNotFound
			}
			s.logger.Error("查询父部门失败", zap.Error(err))
			return err
		}

		// 循环检测：沿目标的祖先链上溯，出现自己即成环
		ancestors, err := s.ancestorChain(ctx, newParent)
		if err != nil {
			return err
		}
		for _, a := range ancestors {
			if a.DeptID == deptID {
				return ErrDeptMoveCycle
			}
		}

		dept.ParentID = newParentID
		dept.Level = newParent.Level + 1
		dept.Path = newParent.SubtreePrefix()
	} else {
		dept.ParentID = nil
		dept.Level = 0
		dept.Path = "/"
	}

	if err := s.repo.Dept.SaveWithVersion(ctx, dept); err != nil {
		s.logger.Error("移动部门失败", zap.String("id", deptID), zap.Error(err))
		return err
	}

	// 子树路径重建：后代的 path 前缀与层级随之平移
	newPrefix := dept.SubtreePrefix()
	if newPrefix != oldPrefix {
		if _, err := s.repo.Dept.RebaseSubtree(ctx, oldPrefix, newPrefix, dept.Level-oldLevel); err != nil {
			s.logger.Error("重建子树路径失败", zap.String("id", deptID), zap.Error(err))
			return err
		}
	}

	return nil
}

// ancestorChain 自下而上收集祖先链（近祖先在前）
func (s *deptService) ancestorChain(ctx context.Context, dept *model.Dept) ([]model.Dept, error) {
	var ancestors []model.Dept
	current := dept
	for current.ParentID != nil {
		parent, err := s.repo.Dept.GetByID(ctx, *current.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break // 祖先链断裂，按到顶处理
			}
			return nil, err
		}
		ancestors = append(ancestors, *parent)
		current = parent
	}
	return ancestors, nil
}

// ────────────────────── Delete ──────────────────────

func (s *deptService) CanDelete(ctx context.Context, id string) (bool, string, error) {
	childCount, err := s.repo.Dept.CountChildren(ctx, id)
	if err != nil {
		return false, "", err
	}
	if childCount > 0 {
		return false, ErrDeptHasChildren.Error(), nil
	}

	userCount, err := s.repo.User.CountByDept(ctx, id)
	if err != nil {
		return false, "", err
	}
	if userCount > 0 {
		return false, ErrDeptHasUsers.Error(), nil
	}

	return true, "", nil
}

func (s *deptService) Delete(ctx context.Context, id string, hard bool, callerID string) error {
	if _, err := s.getDept(ctx, id); err != nil {
		return err
	}

	ok, reason, err := s.CanDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		if reason == ErrDeptHasUsers.Error() {
			return ErrDeptHasUsers
		}
		return ErrDeptHasChildren
	}

	if hard {
		err = s.repo.Dept.HardDelete(ctx, id)
	} else {
		err = s.repo.Dept.SoftDelete(ctx, id, callerID)
	}
	if err != nil {
		s.logger.Error("删除部门失败", zap.String("id", id), zap.Error(err))
	}
	return err
}

// BatchDelete 逐个检查后删除，失败的 ID 收集返回，不中断整批
func (s *deptService) BatchDelete(ctx context.Context, ids []string, hard bool, callerID string) (*dto.DeptBatchDeleteResponse, error) {
	resp := &dto.DeptBatchDeleteResponse{FailedIDs: []string{}}
	for _, id := range ids {
		if err := s.Delete(ctx, id, hard, callerID); err != nil {
			resp.FailedIDs = append(resp.FailedIDs, id)
			continue
		}
		resp.Count++
	}
	return resp, nil
}

func (s *deptService) BatchUpdateStatus(ctx context.Context, ids []string, status bool) (int64, error) {
	count, err := s.repo.Dept.UpdateStatusBatch(ctx, ids, status)
	if err != nil {
		s.logger.Error("批量更新部门状态失败", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// ────────────────────── 树与层级查询 ──────────────────────

// GetTree 获取部门树。一次性取全量部门，内存中按 parent_id 建邻接索引后组装，
// 不做逐节点查询。
func (s *deptService) GetTree(ctx context.Context, parentID *string) ([]*dto.DeptTreeNode, error) {
	depts, err := s.repo.Dept.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.Error(err))
		return nil, err
	}

	// parent_id → 子节点列表（ListAll 已按 sort DESC, created_at ASC 排序）
	childIndex := make(map[string][]*model.Dept)
	for i := range depts {
		key := ""
		if depts[i].ParentID != nil {
			key = *depts[i].ParentID
		}
		childIndex[key] = append(childIndex[key], &depts[i])
	}

	var build func(pid string) []*dto.DeptTreeNode
	build = func(pid string) []*dto.DeptTreeNode {
		children := childIndex[pid]
		nodes := make([]*dto.DeptTreeNode, 0, len(children))
		for _, d := range children {
			nodes = append(nodes, &dto.DeptTreeNode{
				DeptResponse: *toDeptResponse(d),
				Children:     build(d.DeptID),
			})
		}
		return nodes
	}

	rootKey := ""
	if parentID != nil {
		rootKey = *parentID
	}
	return build(rootKey), nil
}

func (s *deptService) GetChildren(ctx context.Context, parentID string) ([]dto.DeptResponse, error) {
	depts, err := s.repo.Dept.ListByParent(ctx, &parentID)
	if err != nil {
		s.logger.Error("查询子部门失败", zap.Error(err))
		return nil, err
	}
	return toDeptResponses(depts), nil
}

// GetByParent 直接子部门列表，带子部门数与用户数
func (s *deptService) GetByParent(ctx context.Context, parentID *string) ([]*dto.DeptCountedNode, error) {
	depts, err := s.repo.Dept.ListByParent(ctx, parentID)
	if err != nil {
		s.logger.Error("查询子部门失败", zap.Error(err))
		return nil, err
	}

	ids := make([]string, len(depts))
	for i, d := range depts {
		ids[i] = d.DeptID
	}
	childCounts, userCounts, err := s.loadCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	nodes := make([]*dto.DeptCountedNode, 0, len(depts))
	for i := range depts {
		d := &depts[i]
		nodes = append(nodes, &dto.DeptCountedNode{
			DeptResponse: *toDeptResponse(d),
			ChildCount:   childCounts[d.DeptID],
			UserCount:    userCounts[d.DeptID],
		})
	}
	return nodes, nil
}

// GetDescendants 获取所有后代（path 前缀查询）
func (s *deptService) GetDescendants(ctx context.Context, id string) ([]dto.DeptResponse, error) {
	dept, err := s.getDept(ctx, id)
	if err != nil {
		return nil, err
	}
	depts, err := s.repo.Dept.ListByPathPrefix(ctx, dept.SubtreePrefix())
	if err != nil {
		s.logger.Error("查询后代部门失败", zap.Error(err))
		return nil, err
	}
	return toDeptResponses(depts), nil
}

// GetAncestors 获取所有祖先，近祖先在前
func (s *deptService) GetAncestors(ctx context.Context, id string) ([]dto.DeptResponse, error) {
	dept, err := s.getDept(ctx, id)
	if err != nil {
		return nil, err
	}
	ancestors, err := s.ancestorChain(ctx, dept)
	if err != nil {
		return nil, err
	}
	return toDeptResponses(ancestors), nil
}

// ────────────────────── 搜索与统计 ──────────────────────

// ancestorIDsFromPath 从 path 解析祖先 ID（path 形如 /id1/id2/）
func ancestorIDsFromPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// Search 关键词搜索部门（名称或编码模糊匹配）。
// 结果中补齐所有祖先节点后组装为森林，保证命中节点到根的路径完整；
// 子部门数/用户数来自两条 GROUP BY 聚合查询。
func (s *deptService) Search(ctx context.Context, keyword string) ([]*dto.DeptCountedNode, error) {
	if keyword == "" {
		return []*dto.DeptCountedNode{}, nil
	}

	matched, err := s.repo.Dept.Search(ctx, keyword)
	if err != nil {
		s.logger.Error("搜索部门失败", zap.Error(err))
		return nil, err
	}

	return s.buildCountedForest(ctx, matched)
}

// GetByIDs 按 ID 批量获取部门并补齐祖先，输出与 Search 相同的森林结构
func (s *deptService) GetByIDs(ctx context.Context, ids []string) ([]*dto.DeptCountedNode, error) {
	if len(ids) == 0 {
		return []*dto.DeptCountedNode{}, nil
	}
	targets, err := s.repo.Dept.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询部门失败", zap.Error(err))
		return nil, err
	}
	return s.buildCountedForest(ctx, targets)
}

func (s *deptService) buildCountedForest(ctx context.Context, targets []model.Dept) ([]*dto.DeptCountedNode, error) {
	if len(targets) == 0 {
		return []*dto.DeptCountedNode{}, nil
	}

	// 祖先 ID 直接取自 path，避免逐节点上溯查询
	idSet := make(map[string]struct{})
	for _, d := range targets {
		idSet[d.DeptID] = struct{}{}
		for _, aid := range ancestorIDsFromPath(d.Path) {
			idSet[aid] = struct{}{}
		}
	}
	allIDs := make([]string, 0, len(idSet))
	for id := range idSet {
		allIDs = append(allIDs, id)
	}

	depts, err := s.repo.Dept.GetByIDs(ctx, allIDs)
	if err != nil {
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}

	childCounts, userCounts, err := s.loadCounts(ctx, allIDs)
	if err != nil {
		return nil, err
	}

	nodeMap := make(map[string]*dto.DeptCountedNode, len(depts))
	for i := range depts {
		d := &depts[i]
		nodeMap[d.DeptID] = &dto.DeptCountedNode{
			DeptResponse: *toDeptResponse(d),
			ChildCount:   childCounts[d.DeptID],
			UserCount:    userCounts[d.DeptID],
		}
	}

	var roots []*dto.DeptCountedNode
	for _, node := range nodeMap {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodeMap[*node.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
	}
	return roots, nil
}

func (s *deptService) loadCounts(ctx context.Context, ids []string) (map[string]int64, map[string]int64, error) {
	childCounts, err := s.repo.Dept.ChildCounts(ctx, ids)
	if err != nil {
		s.logger.Error("聚合子部门数失败", zap.Error(err))
		return nil, nil, err
	}
	userCounts, err := s.repo.Dept.UserCounts(ctx, ids)
	if err != nil {
		s.logger.Error("聚合部门用户数失败", zap.Error(err))
		return nil, nil, err
	}
	return childCounts, userCounts, nil
}

// Stats 部门统计
func (s *deptService) Stats(ctx context.Context) (*dto.DeptStatsResponse, error) {
	total, err := s.repo.Dept.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.repo.Dept.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	roots, err := s.repo.Dept.CountRoots(ctx)
	if err != nil {
		return nil, err
	}
	typeCounts, err := s.repo.Dept.TypeCounts(ctx)
	if err != nil {
		return nil, err
	}
	maxLevel, err := s.repo.Dept.MaxLevel(ctx)
	if err != nil {
		return nil, err
	}

	// 四个固定类型始终出现在结果中，按展示名输出
	typeStats := make(map[string]int64, len(model.DeptTypeDisplay))
	for code, display := range model.DeptTypeDisplay {
		typeStats[display] = typeCounts[code]
	}

	return &dto.DeptStatsResponse{
		TotalCount:    total,
		ActiveCount:   active,
		InactiveCount: total - active,
		RootCount:     roots,
		TypeStats:     typeStats,
		MaxLevel:      maxLevel,
	}, nil
}

// ────────────────────── 部门用户 ──────────────────────

func (s *deptService) SubtreeIDs(ctx context.Context, deptID string) ([]string, error) {
	dept, err := s.getDept(ctx, deptID)
	if err != nil {
		return nil, err
	}
	descendants, err := s.repo.Dept.ListByPathPrefix(ctx, dept.SubtreePrefix())
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(descendants)+1)
	ids = append(ids, deptID)
	for _, d := range descendants {
		ids = append(ids, d.DeptID)
	}
	return ids, nil
}

func (s *deptService) GetDeptUsers(ctx context.Context, deptID string, includeChildren bool) ([]dto.UserSimple, error) {
	deptIDs := []string{deptID}
	if includeChildren {
		ids, err := s.SubtreeIDs(ctx, deptID)
		if err != nil {
			return nil, err
		}
		deptIDs = ids
	} else if _, err := s.getDept(ctx, deptID); err != nil {
		return nil, err
	}

	users, err := s.repo.User.ListByDeptIDs(ctx, deptIDs, true)
	if err != nil {
		s.logger.Error("查询部门用户失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserSimple, 0, len(users))
	for i := range users {
		result = append(result, toUserSimple(&users[i]))
	}
	return result, nil
}

// AddUsers 将用户加入部门，已在该部门的跳过
func (s *deptService) AddUsers(ctx context.Context, deptID string, userIDs []string) (int, error) {
	if _, err := s.getDept(ctx, deptID); err != nil {
		return 0, err
	}

	added := 0
	for _, userID := range userIDs {
		user, err := s.repo.User.GetByID(ctx, userID)
		if err != nil {
			continue
		}
		if user.DeptID != nil && *user.DeptID == deptID {
			continue
		}
		user.DeptID = &deptID
		if err := s.repo.User.Save(ctx, user); err != nil {
			s.logger.Warn("加入部门失败", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		added++
	}
	return added, nil
}

// RemoveUsers 将用户移出部门，不在该部门的跳过
func (s *deptService) RemoveUsers(ctx context.Context, deptID string, userIDs []string) (int, error) {
	removed := 0
	for _, userID := range userIDs {
		user, err := s.repo.User.GetByID(ctx, userID)
		if err != nil {
			continue
		}
		if user.DeptID == nil || *user.DeptID != deptID {
			continue
		}
		user.DeptID = nil
		if err := s.repo.User.Save(ctx, user); err != nil {
			s.logger.Warn("移出部门失败", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// ── 响应组装 ──

func toDeptResponse(d *model.Dept) *dto.DeptResponse {
	return &dto.DeptResponse{
		ID:              d.DeptID,
		Name:            d.Name,
		Code:            d.Code,
		DeptType:        d.DeptType,
		DeptTypeDisplay: d.DeptTypeDisplayName(),
		Phone:           d.Phone,
		Email:           d.Email,
		Status:          d.Status,
		Description:     d.Description,
		ParentID:        d.ParentID,
		LeadID:          d.LeadID,
		Sort:            d.Sort,
		Level:           d.Level,
		Path:            d.Path,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toDeptResponses(depts []model.Dept) []dto.DeptResponse {
	result := make([]dto.DeptResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *toDeptResponse(&depts[i]))
	}
	return result
}

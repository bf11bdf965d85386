package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fast-admin/backend/internal/model"
	"fast-admin/backend/internal/repository"
	pkgerrors "fast-admin/backend/pkg/errors"
)

// ── Mock DeptRepository ──

type mockDeptRepo struct {
	depts map[string]*model.Dept
	order []string // 插入顺序，保证遍历确定性
	users *mockUserRepo
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Dept)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Dept) error {
	if dept.DeptID == "" {
		dept.DeptID = uuid.New().String()
	}
	if dept.Version == 0 {
		dept.Version = 1
	}
	dept.CreatedAt = time.Now()
	dept.UpdatedAt = time.Now()
	m.depts[dept.DeptID] = dept
	m.order = append(m.order, dept.DeptID)
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Dept, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByIDs(_ context.Context, ids []string) ([]model.Dept, error) {
	var result []model.Dept
	for _, id := range m.order {
		for _, want := range ids {
			if id == want {
				result = append(result, *m.depts[id])
				break
			}
		}
	}
	return result, nil
}

func (m *mockDeptRepo) ListAll(_ context.Context) ([]model.Dept, error) {
	var result []model.Dept
	for _, id := range m.order {
		result = append(result, *m.depts[id])
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Sort > result[j].Sort })
	return result, nil
}

func (m *mockDeptRepo) ListByParent(_ context.Context, parentID *string) ([]model.Dept, error) {
	var result []model.Dept
	for _, id := range m.order {
		d := m.depts[id]
		if parentID == nil && d.ParentID == nil {
			result = append(result, *d)
		} else if parentID != nil && d.ParentID != nil && *d.ParentID == *parentID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDeptRepo) ListByPathPrefix(_ context.Context, prefix string) ([]model.Dept, error) {
	var result []model.Dept
	for _, id := range m.order {
		d := m.depts[id]
		if strings.HasPrefix(d.Path, prefix) {
			result = append(result, *d)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Level < result[j].Level })
	return result, nil
}

func (m *mockDeptRepo) Search(_ context.Context, keyword string) ([]model.Dept, error) {
	kw := strings.ToLower(keyword)
	var result []model.Dept
	for _, id := range m.order {
		d := m.depts[id]
		if strings.Contains(strings.ToLower(d.Name), kw) {
			result = append(result, *d)
			continue
		}
		if d.Code != nil && strings.Contains(strings.ToLower(*d.Code), kw) {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDeptRepo) Save(_ context.Context, dept *model.Dept) error {
	if _, ok := m.depts[dept.DeptID]; !ok {
		return gorm.ErrRecordNotFound
	}
	dept.UpdatedAt = time.Now()
	m.depts[dept.DeptID] = dept
	return nil
}

func (m *mockDeptRepo) SaveWithVersion(_ context.Context, dept *model.Dept) error {
	existing, ok := m.depts[dept.DeptID]
	if !ok || existing.Version != dept.Version {
		return pkgerrors.ErrOptimisticLock
	}
	dept.Version++
	m.depts[dept.DeptID] = dept
	return nil
}

func (m *mockDeptRepo) RebaseSubtree(_ context.Context, oldPrefix, newPrefix string, levelDelta int) (int64, error) {
	var count int64
	for _, d := range m.depts {
		if strings.HasPrefix(d.Path, oldPrefix) {
			d.Path = newPrefix + d.Path[len(oldPrefix):]
			d.Level += levelDelta
			count++
		}
	}
	return count, nil
}

func (m *mockDeptRepo) SoftDelete(_ context.Context, id string, _ string) error {
	return m.remove(id)
}

func (m *mockDeptRepo) HardDelete(_ context.Context, id string) error {
	return m.remove(id)
}

func (m *mockDeptRepo) remove(id string) error {
	if _, ok := m.depts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.depts, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockDeptRepo) UpdateStatusBatch(_ context.Context, ids []string, status bool) (int64, error) {
	var count int64
	for _, id := range ids {
		if d, ok := m.depts[id]; ok {
			d.Status = status
			count++
		}
	}
	return count, nil
}

func (m *mockDeptRepo) ChildCounts(_ context.Context, ids []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, d := range m.depts {
		if d.ParentID == nil {
			continue
		}
		for _, id := range ids {
			if *d.ParentID == id {
				counts[id]++
				break
			}
		}
	}
	return counts, nil
}

func (m *mockDeptRepo) UserCounts(_ context.Context, ids []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	if m.users == nil {
		return counts, nil
	}
	for _, u := range m.users.users {
		if u.DeptID == nil {
			continue
		}
		for _, id := range ids {
			if *u.DeptID == id {
				counts[id]++
				break
			}
		}
	}
	return counts, nil
}

func (m *mockDeptRepo) CountChildren(_ context.Context, id string) (int64, error) {
	var count int64
	for _, d := range m.depts {
		if d.ParentID != nil && *d.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (m *mockDeptRepo) CountTotal(_ context.Context) (int64, error) {
	return int64(len(m.depts)), nil
}

func (m *mockDeptRepo) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, d := range m.depts {
		if d.Status {
			count++
		}
	}
	return count, nil
}

func (m *mockDeptRepo) CountRoots(_ context.Context) (int64, error) {
	var count int64
	for _, d := range m.depts {
		if d.ParentID == nil {
			count++
		}
	}
	return count, nil
}

func (m *mockDeptRepo) TypeCounts(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, d := range m.depts {
		counts[d.DeptType]++
	}
	return counts, nil
}

func (m *mockDeptRepo) MaxLevel(_ context.Context) (int, error) {
	maxLevel := 0
	for _, d := range m.depts {
		if d.Level > maxLevel {
			maxLevel = d.Level
		}
	}
	return maxLevel, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	order []string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	m.order = append(m.order, user.UserID)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var matched []model.User
	for _, id := range m.order {
		u := m.users[id]
		if filter.Name != "" && !strings.Contains(u.Name, filter.Name) {
			continue
		}
		if filter.Username != "" && !strings.Contains(u.Username, filter.Username) {
			continue
		}
		if filter.UserStatus != nil && u.UserStatus != *filter.UserStatus {
			continue
		}
		if filter.UserType != nil && u.UserType != *filter.UserType {
			continue
		}
		if len(filter.DeptIDs) > 0 {
			if u.DeptID == nil {
				continue
			}
			found := false
			for _, did := range filter.DeptIDs {
				if *u.DeptID == did {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		matched = append(matched, *u)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockUserRepo) ListByDeptIDs(_ context.Context, deptIDs []string, onlyEnabled bool) ([]model.User, error) {
	var result []model.User
	for _, id := range m.order {
		u := m.users[id]
		if u.DeptID == nil {
			continue
		}
		if onlyEnabled && u.UserStatus != model.UserStatusEnabled {
			continue
		}
		for _, did := range deptIDs {
			if *u.DeptID == did {
				result = append(result, *u)
				break
			}
		}
	}
	return result, nil
}

func (m *mockUserRepo) ListByManager(_ context.Context, managerID string) ([]model.User, error) {
	var result []model.User
	for _, id := range m.order {
		u := m.users[id]
		if u.ManagerID != nil && *u.ManagerID == managerID {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) Save(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) SoftDelete(_ context.Context, id string, _ string) error {
	return m.remove(id)
}

func (m *mockUserRepo) HardDelete(_ context.Context, id string) error {
	return m.remove(id)
}

func (m *mockUserRepo) remove(id string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockUserRepo) UpdateStatusBatch(_ context.Context, ids []string, status int) (int64, error) {
	var count int64
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			u.UserStatus = status
			count++
		}
	}
	return count, nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLogin = &t
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByField(_ context.Context, field, value string, excludeID *string) (bool, error) {
	for _, u := range m.users {
		if excludeID != nil && u.UserID == *excludeID {
			continue
		}
		switch field {
		case "username":
			if u.Username == value {
				return true, nil
			}
		case "email":
			if u.Email != nil && *u.Email == value {
				return true, nil
			}
		case "mobile":
			if u.Mobile != nil && *u.Mobile == value {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *mockUserRepo) CountByDept(_ context.Context, deptID string) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.DeptID != nil && *u.DeptID == deptID {
			count++
		}
	}
	return count, nil
}

// ── Mock MessageRepository ──

type mockMessageRepo struct {
	messages map[string]*model.Message
	order    []string
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{messages: make(map[string]*model.Message)}
}

func (m *mockMessageRepo) Create(_ context.Context, msg *model.Message) error {
	if msg.MessageID == "" {
		msg.MessageID = uuid.New().String()
	}
	msg.CreatedAt = time.Now()
	m.messages[msg.MessageID] = msg
	m.order = append(m.order, msg.MessageID)
	return nil
}

func (m *mockMessageRepo) CreateBatch(ctx context.Context, msgs []*model.Message) error {
	for _, msg := range msgs {
		if err := m.Create(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockMessageRepo) GetByID(_ context.Context, id, recipientID string) (*model.Message, error) {
	if msg, ok := m.messages[id]; ok && msg.RecipientID == recipientID {
		return msg, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMessageRepo) List(_ context.Context, recipientID, msgType, status string, offset, limit int) ([]model.Message, int64, error) {
	var matched []model.Message
	for _, id := range m.order {
		msg, ok := m.messages[id]
		if !ok {
			continue
		}
		if msg.RecipientID != recipientID {
			continue
		}
		if msgType != "" && msg.MsgType != msgType {
			continue
		}
		if status != "" && msg.Status != status {
			continue
		}
		matched = append(matched, *msg)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockMessageRepo) CountUnread(_ context.Context, recipientID string) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.RecipientID == recipientID && msg.Status == model.MsgStatusUnread {
			count++
		}
	}
	return count, nil
}

func (m *mockMessageRepo) CountUnreadByType(_ context.Context, recipientID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, msg := range m.messages {
		if msg.RecipientID == recipientID && msg.Status == model.MsgStatusUnread {
			counts[msg.MsgType]++
		}
	}
	return counts, nil
}

func (m *mockMessageRepo) Save(_ context.Context, msg *model.Message) error {
	if _, ok := m.messages[msg.MessageID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.messages[msg.MessageID] = msg
	return nil
}

func (m *mockMessageRepo) MarkAllRead(_ context.Context, recipientID, msgType string, readAt time.Time) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.RecipientID != recipientID || msg.Status != model.MsgStatusUnread {
			continue
		}
		if msgType != "" && msg.MsgType != msgType {
			continue
		}
		t := readAt
		msg.Status = model.MsgStatusRead
		msg.ReadAt = &t
		count++
	}
	return count, nil
}

func (m *mockMessageRepo) SoftDelete(_ context.Context, id, recipientID string) error {
	if msg, ok := m.messages[id]; ok && msg.RecipientID == recipientID {
		delete(m.messages, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockMessageRepo) DeleteAllRead(_ context.Context, recipientID string) (int64, error) {
	var count int64
	for id, msg := range m.messages {
		if msg.RecipientID == recipientID && msg.Status == model.MsgStatusRead {
			delete(m.messages, id)
			count++
		}
	}
	return count, nil
}

// ── Mock AnnouncementRepository ──

type mockAnnouncementRepo struct {
	announcements map[string]*model.Announcement
	reads         map[string]*model.AnnouncementRead // key: annID+":"+userID
	order         []string
}

func newMockAnnouncementRepo() *mockAnnouncementRepo {
	return &mockAnnouncementRepo{
		announcements: make(map[string]*model.Announcement),
		reads:         make(map[string]*model.AnnouncementRead),
	}
}

func (m *mockAnnouncementRepo) Create(_ context.Context, ann *model.Announcement) error {
	if ann.AnnouncementID == "" {
		ann.AnnouncementID = uuid.New().String()
	}
	ann.CreatedAt = time.Now()
	ann.UpdatedAt = time.Now()
	m.announcements[ann.AnnouncementID] = ann
	m.order = append(m.order, ann.AnnouncementID)
	return nil
}

func (m *mockAnnouncementRepo) GetByID(_ context.Context, id string) (*model.Announcement, error) {
	if a, ok := m.announcements[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnnouncementRepo) List(_ context.Context, status, keyword string, offset, limit int) ([]model.Announcement, int64, error) {
	var matched []model.Announcement
	for _, id := range m.order {
		a := m.announcements[id]
		if status != "" && a.Status != status {
			continue
		}
		if keyword != "" && !strings.Contains(a.Title, keyword) && !strings.Contains(a.Content, keyword) {
			continue
		}
		matched = append(matched, *a)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockAnnouncementRepo) visible(a *model.Announcement, aud model.Audience, now time.Time) bool {
	if a.Status != model.AnnouncementStatusPublished || a.Expired(now) {
		return false
	}
	return a.VisibleTo(aud)
}

func (m *mockAnnouncementRepo) ListVisible(_ context.Context, aud model.Audience, unreadOnly bool, now time.Time, offset, limit int) ([]model.Announcement, int64, error) {
	var matched []model.Announcement
	for _, id := range m.order {
		a := m.announcements[id]
		if !m.visible(a, aud, now) {
			continue
		}
		if unreadOnly {
			if _, read := m.reads[a.AnnouncementID+":"+aud.UserID]; read {
				continue
			}
		}
		matched = append(matched, *a)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockAnnouncementRepo) CountVisibleUnread(_ context.Context, aud model.Audience, now time.Time) (int64, error) {
	var count int64
	for _, a := range m.announcements {
		if !m.visible(a, aud, now) {
			continue
		}
		if _, read := m.reads[a.AnnouncementID+":"+aud.UserID]; !read {
			count++
		}
	}
	return count, nil
}

func (m *mockAnnouncementRepo) Save(_ context.Context, ann *model.Announcement) error {
	if _, ok := m.announcements[ann.AnnouncementID]; !ok {
		return gorm.ErrRecordNotFound
	}
	ann.UpdatedAt = time.Now()
	m.announcements[ann.AnnouncementID] = ann
	return nil
}

func (m *mockAnnouncementRepo) SoftDelete(_ context.Context, id string, _ string) error {
	if _, ok := m.announcements[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.announcements, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockAnnouncementRepo) MarkRead(_ context.Context, announcementID, userID string, readAt time.Time) (bool, error) {
	key := announcementID + ":" + userID
	if _, ok := m.reads[key]; ok {
		return false, nil
	}
	t := readAt
	m.reads[key] = &model.AnnouncementRead{
		ID:             uuid.New().String(),
		AnnouncementID: announcementID,
		UserID:         userID,
		ReadAt:         &t,
	}
	if a, ok := m.announcements[announcementID]; ok {
		a.ReadCount++
	}
	return true, nil
}

func (m *mockAnnouncementRepo) ReadIDs(_ context.Context, userID string, announcementIDs []string) (map[string]bool, error) {
	read := make(map[string]bool)
	for _, id := range announcementIDs {
		if _, ok := m.reads[id+":"+userID]; ok {
			read[id] = true
		}
	}
	return read, nil
}

func (m *mockAnnouncementRepo) ListReads(_ context.Context, announcementID string, limit int) ([]model.AnnouncementRead, error) {
	var result []model.AnnouncementRead
	for _, r := range m.reads {
		if r.AnnouncementID == announcementID {
			result = append(result, *r)
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

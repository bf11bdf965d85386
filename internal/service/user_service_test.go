package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/repository"
)

func setupUserService() (UserService, *mockUserRepo, DeptService) {
	deptRepo := newMockDeptRepo()
	userRepo := newMockUserRepo()
	deptRepo.users = userRepo
	repo := &repository.Repository{
		Dept:         deptRepo,
		User:         userRepo,
		Message:      newMockMessageRepo(),
		Announcement: newMockAnnouncementRepo(),
	}
	deptSvc := NewDeptService(repo, zap.NewNop())
	return NewUserService(repo, deptSvc, zap.NewNop()), userRepo, deptSvc
}

func strPtr(s string) *string { return &s }

func mustCreateUser(t *testing.T, svc UserService, username string, deptID *string) *dto.UserResponse {
	t.Helper()
	user, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Username: username,
		Password: "secret123",
		Name:     username,
		DeptID:   deptID,
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建用户应成功: %v", err)
	}
	return user
}

func TestUserService_Create(t *testing.T) {
	svc, userRepo, _ := setupUserService()

	user := mustCreateUser(t, svc, "zhangsan", nil)

	if user.ID == "" {
		t.Error("创建后应分配用户 ID")
	}
	if user.UserStatus != 1 {
		t.Errorf("新用户期望启用状态，实际=%d", user.UserStatus)
	}

	// 密码应以 bcrypt 散列入库，不存明文
	stored, _ := userRepo.GetByID(context.Background(), user.ID)
	if stored.PasswordHash == "secret123" {
		t.Error("密码不应明文存储")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")) != nil {
		t.Error("存储的散列应能校验原始密码")
	}
}

func TestUserService_Create_UsernameExists(t *testing.T) {
	svc, _, _ := setupUserService()

	mustCreateUser(t, svc, "zhangsan", nil)

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Username: "zhangsan",
		Password: "secret123",
	}, "admin-001")
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("重复用户名期望 ErrUsernameExists，实际: %v", err)
	}
}

func TestUserService_Create_EmailAndMobileExists(t *testing.T) {
	svc, _, _ := setupUserService()

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Username: "zhangsan",
		Password: "secret123",
		Email:    strPtr("zs@example.com"),
		Mobile:   strPtr("13800000001"),
	}, "admin-001")
	if err != nil {
		t.Fatalf("首个用户应创建成功: %v", err)
	}

	_, err = svc.Create(context.Background(), &dto.CreateUserRequest{
		Username: "lisi",
		Password: "secret123",
		Email:    strPtr("zs@example.com"),
	}, "admin-001")
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("重复邮箱期望 ErrEmailExists，实际: %v", err)
	}

	_, err = svc.Create(context.Background(), &dto.CreateUserRequest{
		Username: "lisi",
		Password: "secret123",
		Mobile:   strPtr("13800000001"),
	}, "admin-001")
	if !errors.Is(err, ErrMobileExists) {
		t.Errorf("重复手机号期望 ErrMobileExists，实际: %v", err)
	}
}

func TestUserService_Create_DeptNotFound(t *testing.T) {
	svc, _, _ := setupUserService()

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Username: "zhangsan",
		Password: "secret123",
		DeptID:   strPtr("no-such-dept"),
	}, "admin-001")
	if !errors.Is(err, ErrDeptNotFound) {
		t.Errorf("部门不存在期望 ErrDeptNotFound，实际: %v", err)
	}
}

func TestUserService_Update_KeepOwnUsername(t *testing.T) {
	svc, _, _ := setupUserService()

	user := mustCreateUser(t, svc, "zhangsan", nil)

	// 用户名未变时不应触发唯一性冲突
	updated, err := svc.Update(context.Background(), user.ID, &dto.UpdateUserRequest{
		Username: strPtr("zhangsan"),
		Name:     strPtr("张三"),
	}, "admin-001")
	if err != nil {
		t.Fatalf("保持原用户名更新应成功: %v", err)
	}
	if updated.Name != "张三" {
		t.Errorf("期望姓名更新为 张三，实际=%s", updated.Name)
	}
}

func TestUserService_Update_UsernameTaken(t *testing.T) {
	svc, _, _ := setupUserService()

	mustCreateUser(t, svc, "zhangsan", nil)
	other := mustCreateUser(t, svc, "lisi", nil)

	_, err := svc.Update(context.Background(), other.ID, &dto.UpdateUserRequest{
		Username: strPtr("zhangsan"),
	}, "admin-001")
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("改为他人用户名期望 ErrUsernameExists，实际: %v", err)
	}
}

func TestUserService_Delete_SuperuserProtected(t *testing.T) {
	svc, userRepo, _ := setupUserService()

	user := mustCreateUser(t, svc, "admin", nil)
	stored, _ := userRepo.GetByID(context.Background(), user.ID)
	stored.IsSuperuser = true

	err := svc.Delete(context.Background(), user.ID, false, "admin-001")
	if !errors.Is(err, ErrUserProtected) {
		t.Errorf("删除超管期望 ErrUserProtected，实际: %v", err)
	}
}

func TestUserService_BatchDelete_PartialFailure(t *testing.T) {
	svc, userRepo, _ := setupUserService()

	admin := mustCreateUser(t, svc, "admin", nil)
	normal := mustCreateUser(t, svc, "zhangsan", nil)
	stored, _ := userRepo.GetByID(context.Background(), admin.ID)
	stored.IsSuperuser = true

	resp, err := svc.BatchDelete(context.Background(), []string{admin.ID, normal.ID, "no-such-user"}, false, "admin-001")
	if err != nil {
		t.Fatalf("BatchDelete 应成功返回: %v", err)
	}
	if resp.SuccessCount != 1 {
		t.Errorf("期望成功 1 个，实际=%d", resp.SuccessCount)
	}
	if len(resp.FailedIDs) != 2 {
		t.Errorf("期望失败 2 个（超管+不存在），实际=%v", resp.FailedIDs)
	}
}

func TestUserService_List_DeptSubtree(t *testing.T) {
	svc, _, deptSvc := setupUserService()

	root := mustCreateDept(t, deptSvc, "总公司", nil)
	child := mustCreateDept(t, deptSvc, "研发部", &root.ID)
	other := mustCreateDept(t, deptSvc, "分公司", nil)

	mustCreateUser(t, svc, "zhangsan", &root.ID)
	mustCreateUser(t, svc, "lisi", &child.ID)
	mustCreateUser(t, svc, "wangwu", &other.ID)

	// dept_id 过滤展开整棵子树：根 + 子部门共 2 人
	users, total, err := svc.List(context.Background(), &dto.UserListRequest{
		Page: 1, PageSize: 10, DeptID: &root.ID,
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Errorf("期望子树内 2 个用户，实际 total=%d", total)
	}
	for _, u := range users {
		if u.Username == "wangwu" {
			t.Error("其他部门的用户不应出现在结果中")
		}
	}
}

func TestUserService_CheckUnique(t *testing.T) {
	svc, _, _ := setupUserService()

	user := mustCreateUser(t, svc, "zhangsan", nil)

	available, err := svc.CheckUnique(context.Background(), &dto.CheckUniqueRequest{Field: "username", Value: "zhangsan"})
	if err != nil {
		t.Fatalf("CheckUnique 应成功: %v", err)
	}
	if available {
		t.Error("已占用的用户名应返回不可用")
	}

	available, _ = svc.CheckUnique(context.Background(), &dto.CheckUniqueRequest{Field: "username", Value: "lisi"})
	if !available {
		t.Error("未占用的用户名应返回可用")
	}

	// exclude_id 排除自身后自己的用户名视为可用
	available, _ = svc.CheckUnique(context.Background(), &dto.CheckUniqueRequest{
		Field: "username", Value: "zhangsan", ExcludeID: &user.ID,
	})
	if !available {
		t.Error("排除自身后应返回可用")
	}

	_, err = svc.CheckUnique(context.Background(), &dto.CheckUniqueRequest{Field: "password", Value: "x"})
	if !errors.Is(err, ErrUniqueField) {
		t.Errorf("不支持的字段期望 ErrUniqueField，实际: %v", err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, userRepo, _ := setupUserService()

	user := mustCreateUser(t, svc, "zhangsan", nil)

	err := svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newsecret",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("原密码错误期望 ErrOldPasswordWrong，实际: %v", err)
	}

	err = svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "secret123", NewPassword: "newsecret",
	})
	if err != nil {
		t.Fatalf("原密码正确应修改成功: %v", err)
	}

	stored, _ := userRepo.GetByID(context.Background(), user.ID)
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret")) != nil {
		t.Error("修改后的散列应能校验新密码")
	}
}

func TestUserService_ResetPassword(t *testing.T) {
	svc, userRepo, _ := setupUserService()

	user := mustCreateUser(t, svc, "zhangsan", nil)

	if err := svc.ResetPassword(context.Background(), user.ID, "resetpass"); err != nil {
		t.Fatalf("ResetPassword 应成功: %v", err)
	}

	stored, _ := userRepo.GetByID(context.Background(), user.ID)
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("resetpass")) != nil {
		t.Error("重置后的散列应能校验新密码")
	}

	if err := svc.ResetPassword(context.Background(), "no-such-user", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("不存在的用户期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_GetDirectSubordinates(t *testing.T) {
	svc, _, _ := setupUserService()

	manager := mustCreateUser(t, svc, "manager", nil)
	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Username:  "zhangsan",
		Password:  "secret123",
		ManagerID: &manager.ID,
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建下属应成功: %v", err)
	}
	mustCreateUser(t, svc, "lisi", nil)

	subs, err := svc.GetDirectSubordinates(context.Background(), manager.ID)
	if err != nil {
		t.Fatalf("GetDirectSubordinates 应成功: %v", err)
	}
	if len(subs) != 1 || subs[0].Username != "zhangsan" {
		t.Errorf("期望 1 个直接下属 zhangsan，实际=%+v", subs)
	}
}

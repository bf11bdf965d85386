package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"fast-admin/backend/internal/model"
	"fast-admin/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
	ErrImportBadFile      = errors.New("无法读取 Excel 文件")
	ErrImportEmptyFile    = errors.New("Excel 文件中没有数据行")
)

// ExportService 导出/导入业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
// 导入逐行解析，坏行跳过并计入失败数，不中断整批。
type ExportService interface {
	ExportDepartments(ctx context.Context) (*bytes.Buffer, string, error)
	ExportUsers(ctx context.Context) (*bytes.Buffer, string, error)
	ImportDepartments(ctx context.Context, r io.Reader, callerID string) (*ImportResult, error)
	UserImportTemplate() (*bytes.Buffer, string, error)
}

// ImportResult 导入结果
type ImportResult struct {
	SuccessCount int      `json:"success_count"`
	FailCount    int      `json:"fail_count"`
	Errors       []string `json:"errors,omitempty"`
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// 导入/导出共用的中文展示映射
var (
	deptTypeToDisplay = model.DeptTypeDisplay
	displayToDeptType = map[string]string{
		"公司": model.DeptTypeCompany,
		"部门": model.DeptTypeDepartment,
		"小组": model.DeptTypeTeam,
		"其他": model.DeptTypeOther,
	}
)

func statusDisplay(enabled bool) string {
	if enabled {
		return "启用"
	}
	return "禁用"
}

// ExportDepartments 导出全部部门为 Excel，按层级缩进名称
func (s *exportService) ExportDepartments(ctx context.Context) (*bytes.Buffer, string, error) {
	depts, err := s.repo.Dept.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "部门"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"部门名称", "部门编码", "类型", "电话", "邮箱", "状态", "层级", "排序", "创建时间"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "E", 18)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for i := range depts {
		d := &depts[i]
		name := d.Name
		for l := 0; l < d.Level; l++ {
			name = "　" + name // 全角空格缩进体现层级
		}
		code := ""
		if d.Code != nil {
			code = *d.Code
		}
		phone := ""
		if d.Phone != nil {
			phone = *d.Phone
		}
		email := ""
		if d.Email != nil {
			email = *d.Email
		}

		values := []interface{}{
			name, code, deptTypeToDisplay[d.DeptType], phone, email,
			statusDisplay(d.Status), d.Level, d.Sort,
			d.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("部门列表_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ExportUsers 导出全部用户为 Excel
func (s *exportService) ExportUsers(ctx context.Context) (*bytes.Buffer, string, error) {
	users, _, err := s.repo.User.List(ctx, repository.UserFilter{}, 0, 10000)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "用户"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"用户名", "姓名", "邮箱", "手机号", "所属部门", "状态", "创建时间"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetColWidth(sheetName, "A", "E", 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for i := range users {
		u := &users[i]
		email := ""
		if u.Email != nil {
			email = *u.Email
		}
		mobile := ""
		if u.Mobile != nil {
			mobile = *u.Mobile
		}
		deptName := ""
		if u.Dept != nil {
			deptName = u.Dept.Name
		}

		values := []interface{}{
			u.Username, u.Name, email, mobile, deptName,
			statusDisplay(u.UserStatus == model.UserStatusEnabled),
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("用户列表_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ImportDepartments 从 Excel 导入部门。
// 第一行为表头，支持列：部门名称 | 部门编码 | 类型 | 电话 | 邮箱 | 状态。
// 名称为空、类型无法识别的行跳过并记录错误
func (s *exportService) ImportDepartments(ctx context.Context, r io.Reader, callerID string) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrImportBadFile
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrImportEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, ErrImportBadFile
	}
	if len(rows) <= 1 {
		return nil, ErrImportEmptyFile
	}

	// 表头 → 列号映射，列顺序可以任意
	colIndex := make(map[string]int)
	for i, h := range rows[0] {
		colIndex[h] = i
	}
	get := func(row []string, header string) string {
		i, ok := colIndex[header]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	result := &ImportResult{}
	for rowNum, row := range rows[1:] {
		name := get(row, "部门名称")
		if name == "" {
			result.FailCount++
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行：部门名称为空", rowNum+2))
			continue
		}

		deptType := model.DeptTypeDepartment
		if display := get(row, "类型"); display != "" {
			t, ok := displayToDeptType[display]
			if !ok {
				result.FailCount++
				result.Errors = append(result.Errors, fmt.Sprintf("第%d行：无法识别的类型 %q", rowNum+2, display))
				continue
			}
			deptType = t
		}

		status := get(row, "状态") != "禁用"

		dept := &model.Dept{
			Name:     name,
			DeptType: deptType,
			Status:   status,
			Level:    0,
			Path:     "/",
		}
		if code := get(row, "部门编码"); code != "" {
			if err := validateDeptCode(code); err != nil {
				result.FailCount++
				result.Errors = append(result.Errors, fmt.Sprintf("第%d行：%s", rowNum+2, err))
				continue
			}
			dept.Code = &code
		}
		if phone := get(row, "电话"); phone != "" {
			dept.Phone = &phone
		}
		if email := get(row, "邮箱"); email != "" {
			dept.Email = &email
		}
		dept.CreatedBy = &callerID
		dept.UpdatedBy = &callerID

		if err := s.repo.Dept.Create(ctx, dept); err != nil {
			s.logger.Warn("导入部门失败", zap.String("name", name), zap.Error(err))
			result.FailCount++
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行：保存失败", rowNum+2))
			continue
		}
		result.SuccessCount++
	}

	return result, nil
}

// UserImportTemplate 用户导入模板，仅表头与一行示例
func (s *exportService) UserImportTemplate() (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "用户"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"用户名", "姓名", "密码", "邮箱", "手机号", "状态"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	example := []interface{}{"zhangsan", "张三", "abc123456", "zhangsan@example.com", "13800000000", "启用"}
	for i, v := range example {
		f.SetCellValue(sheetName, cell(colName(i), 2), v)
	}
	f.SetColWidth(sheetName, "A", "F", 20)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "用户导入模板.xlsx", nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

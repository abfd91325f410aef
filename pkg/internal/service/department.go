package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yeisme/archivault/pkg/configs"
	ctxPkg "github.com/yeisme/archivault/pkg/context"
	"github.com/yeisme/archivault/pkg/internal/model"
	nlog "github.com/yeisme/archivault/pkg/log"
)

// DepartmentService 解析部门父链.
type DepartmentService struct{ *Service }

func NewDepartmentService(c context.Context) *DepartmentService {
	return &DepartmentService{newService(c)}
}

// ResolveAncestorPath 返回根到叶的部门名称序列.
//
// 给定 subDepartmentID 时从子部门起步，其父链可能覆盖调用方传入的 departmentID；
// 子部门查不到则退回 departmentID。沿 ParentID 逐级上行，叶到根收集名称，最后整体反转。
//
// 纯展示语义：中途断链（父记录缺失）停止并返回已有的部分路径；
// 成环或超过跳数上限视为脏数据，记日志并截断，绝不向调用方抛错.
func (s *DepartmentService) ResolveAncestorPath(ctx context.Context, departmentID uint, subDepartmentID *uint) []string {
	l := ctxPkg.WithTraceContext(ctx, *nlog.Logger())
	maxHops := configs.GetConfig().Archive.MaxTreeDepth

	names := make([]string, 0, 4)

	var cur *uint

	if subDepartmentID != nil && *subDepartmentID != 0 {
		sub, err := s.fetch(ctx, *subDepartmentID)
		switch {
		case err == nil:
			names = append(names, sub.Name)
			cur = sub.ParentID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 子部门缺失，退回主部门
			cur = &departmentID
		default:
			l.Warn().Err(err).Uint("sub_department_id", *subDepartmentID).Msg("department lookup failed")
			return names
		}
	} else {
		cur = &departmentID
	}

	visited := map[uint]struct{}{}

	for hops := 0; cur != nil && *cur != 0; hops++ {
		if hops >= maxHops {
			l.Error().Uint("department_id", departmentID).Int("max_hops", maxHops).
				Msg("department chain exceeds hop bound, truncating")

			break
		}

		if _, seen := visited[*cur]; seen {
			l.Error().Uint("department_id", *cur).Msg("department chain contains a cycle, truncating")

			break
		}

		visited[*cur] = struct{}{}

		dept, err := s.fetch(ctx, *cur)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				l.Warn().Err(err).Uint("department_id", *cur).Msg("department lookup failed")
			}
			// 断链：返回已收集的部分路径
			break
		}

		names = append(names, dept.Name)
		cur = dept.ParentID
	}

	// 叶到根反转为根到叶
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	return names
}

func (s *DepartmentService) fetch(ctx context.Context, id uint) (*model.Department, error) {
	var dept model.Department
	if err := s.dbx(ctx).First(&dept, id).Error; err != nil {
		return nil, err
	}

	return &dept, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"github.com/yeisme/archivault/pkg/configs"
	ctxPkg "github.com/yeisme/archivault/pkg/context"
	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/types"
	nlog "github.com/yeisme/archivault/pkg/log"
)

// LocationService 把部门父链与物理位置拼成完整存放路径，供文件详情页与扫码落地页使用.
type LocationService struct{ *Service }

func NewLocationService(c context.Context) *LocationService {
	return &LocationService{newService(c)}
}

// locationCacheKey 位置缓存键.
func locationCacheKey(fileID uint) string {
	return fmt.Sprintf("loc:%d", fileID)
}

// FullLocationPath 返回档案的完整存放路径与明细.
//
// 文件不存在返回 (nil, nil) 而非错误；路径由部门路径与非空的物理位置字段
// 顺序拼接而成，空段直接省略。结果按 fileID 写入 KV 缓存，位置变更时失效.
func (s *LocationService) FullLocationPath(ctx context.Context, fileID uint) (*types.FileLocation, error) {
	l := ctxPkg.WithTraceContext(ctx, *nlog.Logger())

	if cached := s.fromCache(ctx, fileID); cached != nil {
		return cached, nil
	}

	var file model.File
	if err := s.dbx(ctx).First(&file, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("load file %d: %w", fileID, err)
	}

	deptPath := NewDepartmentService(ctx).ResolveAncestorPath(ctx, file.DepartmentID, file.SubDepartmentID)

	var loc model.StorageLocation

	if file.LocationID != nil {
		if err := s.dbx(ctx).First(&loc, *file.LocationID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("load location %d: %w", *file.LocationID, err)
			}
			// 位置记录缺失按无物理位置处理
			l.Warn().Uint("file_id", fileID).Uint("location_id", *file.LocationID).Msg("storage location missing")
		}
	}

	result := composeLocation(deptPath, &loc, configs.GetConfig().Archive.PathSeparator)

	s.toCache(ctx, fileID, result)

	return result, nil
}

// InvalidateLocation 使某档案的位置缓存失效，位置或部门变更后调用.
func (s *LocationService) InvalidateLocation(ctx context.Context, fileID uint) {
	if s.kvClient == nil {
		return
	}

	if err := s.kvClient.Delete(ctx, locationCacheKey(fileID)); err != nil {
		nlog.Logger().Warn().Err(err).Uint("file_id", fileID).Msg("invalidate location cache failed")
	}
}

// composeLocation 拼装显示路径与六键明细.
func composeLocation(deptPath []string, loc *model.StorageLocation, sep string) *types.FileLocation {
	segments := make([]string, 0, len(deptPath)+5)
	segments = append(segments, deptPath...)

	physical := []string{loc.Room, loc.Cabinet, loc.Layer, loc.Box, loc.Folder}
	for _, p := range physical {
		if p != "" {
			segments = append(segments, p)
		}
	}

	details := types.LocationDetails{
		Department: optString(strings.Join(deptPath, " "+sep+" ")),
		Room:       optString(loc.Room),
		Cabinet:    optString(loc.Cabinet),
		Layer:      optString(loc.Layer),
		Box:        optString(loc.Box),
		Folder:     optString(loc.Folder),
	}

	if len(deptPath) == 0 {
		details.Department = nil
	}

	return &types.FileLocation{
		Path:    strings.Join(segments, " "+sep+" "),
		Details: details,
	}
}

// optString 空串转 nil，保证明细键稳定存在且语义为"未知".
func optString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func (s *LocationService) fromCache(ctx context.Context, fileID uint) *types.FileLocation {
	if s.kvClient == nil {
		return nil
	}

	data, err := s.kvClient.Get(ctx, locationCacheKey(fileID))
	if err != nil {
		return nil
	}

	var loc types.FileLocation
	if err := sonic.Unmarshal(data, &loc); err != nil {
		return nil
	}

	return &loc
}

func (s *LocationService) toCache(ctx context.Context, fileID uint, loc *types.FileLocation) {
	if s.kvClient == nil || loc == nil {
		return
	}

	data, err := sonic.Marshal(loc)
	if err != nil {
		return
	}

	ttl := configs.GetConfig().Archive.GetLocationCacheTTL()
	if err := s.kvClient.Set(ctx, locationCacheKey(fileID), data, ttl); err != nil {
		nlog.Logger().Warn().Err(err).Uint("file_id", fileID).Msg("cache location failed")
	}
}

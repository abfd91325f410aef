package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/archivault/pkg/configs"
	ctxPkg "github.com/yeisme/archivault/pkg/context"
	"github.com/yeisme/archivault/pkg/internal/model"
	"github.com/yeisme/archivault/pkg/internal/types"
	nlog "github.com/yeisme/archivault/pkg/log"
	"github.com/yeisme/archivault/pkg/queue"
)

// FileService 档案登记、位置调整、扫码取档与电子副本访问.
type FileService struct{ *Service }

func NewFileService(c context.Context) *FileService {
	return &FileService{newService(c)}
}

// buildObjectKey 生成电子副本对象键：owner/YYYY/MM/name.
func buildObjectKey(ownerID uint, name string, t time.Time) string {
	return fmt.Sprintf("%d/%04d/%02d/%s", ownerID, t.Year(), int(t.Month()), name)
}

// Register 登记新档案：建档案行并写 upload 账本行，两者在同一事务内.
// WithUpload 时附带电子副本的预签名 PUT URL.
func (fs *FileService) Register(ctx context.Context, ownerID uint, req *types.RegisterFileRequest) (*types.RegisterFileResponse, error) {
	cfg := configs.GetConfig()

	if req.WithUpload && fs.s3Client == nil {
		return nil, fmt.Errorf("object storage not configured, cannot accept digital copy")
	}

	file := model.File{
		Name:            req.Name,
		OwnerID:         ownerID,
		DepartmentID:    req.DepartmentID,
		SubDepartmentID: req.SubDepartmentID,
		LocationID:      req.LocationID,
		ContentType:     req.ContentType,
		Size:            req.Size,
		Status:          model.FileStatusActive,
	}

	if req.WithUpload {
		file.ObjectKey = buildObjectKey(ownerID, req.Name, time.Now())
		file.Bucket = cfg.S3.Bucket
	}

	err := fs.dbx(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&file).Error; err != nil {
			return fmt.Errorf("create file: %w", err)
		}

		row := &model.Transaction{
			UserID:      &ownerID,
			FileID:      &file.ID,
			Type:        model.TxUpload,
			Status:      model.StatusCompleted,
			ActionKind:  model.ActionOther,
			Description: fmt.Sprintf("File %q registered", file.Name),
		}

		return AppendAllTx(tx, []*model.Transaction{row})
	})
	if err != nil {
		return nil, err
	}

	resp := &types.RegisterFileResponse{FileID: file.ID}

	if req.WithUpload {
		expiry := cfg.S3.GetPresignExpiry()

		putURL, err := fs.s3Client.PresignPut(ctx, file.ObjectKey, expiry)
		if err != nil {
			return nil, fmt.Errorf("presign upload: %w", err)
		}

		resp.ObjectKey = file.ObjectKey
		resp.PutURL = putURL
		resp.ExpiresIn = int(expiry.Seconds())
	}

	fs.publishUploaded(ctx, &file)

	return resp, nil
}

// Relocate 调整档案物理位置：改 LocationID 并写 relocation 账本行，
// 同一事务提交后使位置缓存失效，返回新的完整位置路径.
//
// 只有属主可以调整位置.
func (fs *FileService) Relocate(ctx context.Context, userID, fileID, locationID uint) (*types.RelocateFileResponse, error) {
	var file model.File
	if err := fs.dbx(ctx).First(&file, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("load file %d: %w", fileID, err)
	}

	if file.OwnerID != userID {
		return nil, ErrUnauthorized
	}

	var loc model.StorageLocation
	if err := fs.dbx(ctx).First(&loc, locationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: location %d", ErrNotFound, locationID)
		}

		return nil, fmt.Errorf("load location %d: %w", locationID, err)
	}

	err := fs.dbx(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&file).Update("location_id", locationID).Error; err != nil {
			return err
		}

		row := &model.Transaction{
			UserID:      &userID,
			FileID:      &file.ID,
			Type:        model.TxRelocation,
			Status:      model.StatusCompleted,
			ActionKind:  model.ActionOther,
			Description: fmt.Sprintf("File %q relocated", file.Name),
		}

		return AppendAllTx(tx, []*model.Transaction{row})
	})
	if err != nil {
		return nil, err
	}

	locSvc := NewLocationService(ctx)
	locSvc.InvalidateLocation(ctx, fileID)

	fs.publishRelocated(ctx, fileID, &locationID)

	resolved, err := locSvc.FullLocationPath(ctx, fileID)
	if err != nil {
		return nil, err
	}

	resp := &types.RelocateFileResponse{FileID: fileID}
	if resolved != nil {
		resp.LocationPath = resolved.Path
	}

	return resp, nil
}

// Scan 扫码取档：解析当前完整位置路径并写 scan 账本行.
// 文件不存在返回 ErrNotFound（扫到无效码）.
func (fs *FileService) Scan(ctx context.Context, userID, fileID uint) (*types.ScanFileResponse, error) {
	var file model.File
	if err := fs.dbx(ctx).First(&file, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("load file %d: %w", fileID, err)
	}

	resolved, err := NewLocationService(ctx).FullLocationPath(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if resolved == nil {
		return nil, ErrNotFound
	}

	row := &model.Transaction{
		UserID:      &userID,
		FileID:      &file.ID,
		Type:        model.TxScan,
		Status:      model.StatusCompleted,
		ActionKind:  model.ActionOther,
		Description: fmt.Sprintf("File %q scanned", file.Name),
	}
	if _, err := NewLedgerService(ctx).Append(ctx, row); err != nil {
		return nil, err
	}

	fs.publishScanned(ctx, fileID, userID, resolved.Path)

	return &types.ScanFileResponse{
		FileID:       file.ID,
		Name:         file.Name,
		LocationPath: resolved.Path,
	}, nil
}

// DigitalAccess 访问电子副本：签发预签名 GET URL 并写 digital_access 账本行.
func (fs *FileService) DigitalAccess(ctx context.Context, userID, fileID uint, expirySeconds int) (*types.DigitalAccessResponse, error) {
	var file model.File
	if err := fs.dbx(ctx).First(&file, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("load file %d: %w", fileID, err)
	}

	if file.ObjectKey == "" {
		return nil, ErrNoDigitalCopy
	}

	if fs.s3Client == nil {
		return nil, fmt.Errorf("object storage not configured")
	}

	expiry := configs.GetConfig().S3.GetPresignExpiry()
	if expirySeconds > 0 {
		expiry = time.Duration(expirySeconds) * time.Second
	}

	getURL, err := fs.s3Client.PresignGet(ctx, file.ObjectKey, expiry)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}

	row := &model.Transaction{
		UserID:      &userID,
		FileID:      &file.ID,
		Type:        model.TxDigitalAccess,
		Status:      model.StatusCompleted,
		ActionKind:  model.ActionOther,
		Description: fmt.Sprintf("Digital copy of %q accessed", file.Name),
	}
	if _, err := NewLedgerService(ctx).Append(ctx, row); err != nil {
		return nil, err
	}

	return &types.DigitalAccessResponse{
		FileID:    file.ID,
		ObjectKey: file.ObjectKey,
		GetURL:    getURL,
		ExpiresIn: int(expiry.Seconds()),
	}, nil
}

// PhysicalRequest 申请调阅纸质原件：写 physical_request/pending 行，
// 并给属主发一条共享同一 ActionID 的通知，原子扇出.
func (fs *FileService) PhysicalRequest(ctx context.Context, userID, fileID uint) (*types.PhysicalRequestResponse, error) {
	var file model.File
	if err := fs.dbx(ctx).First(&file, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("load file %d: %w", fileID, err)
	}

	var requester model.User
	if err := fs.dbx(ctx).First(&requester, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}

		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	actionID := NewActionID()

	rows := []*model.Transaction{
		{
			UserID:            &requester.ID,
			FileID:            &file.ID,
			UsersDepartmentID: &requester.DepartmentID,
			Type:              model.TxPhysicalRequest,
			Status:            model.StatusPending,
			ActionID:          actionID,
			ActionKind:        model.ActionOther,
			Description:       fmt.Sprintf("%s requested the physical copy of %q", requester.Name, file.Name),
		},
		{
			UserID:      &file.OwnerID,
			FileID:      &file.ID,
			Type:        model.TxNotification,
			Status:      model.StatusPending,
			ActionID:    actionID,
			ActionKind:  model.ActionOther,
			Description: fmt.Sprintf("%s requested the physical copy of your file %q", requester.Name, file.Name),
		},
	}

	if err := NewLedgerService(ctx).AppendAll(ctx, rows); err != nil {
		return nil, err
	}

	return &types.PhysicalRequestResponse{
		FileID:   file.ID,
		ActionID: actionID,
		Status:   string(model.StatusPending),
	}, nil
}

func (fs *FileService) publishUploaded(ctx context.Context, file *model.File) {
	if fs.mqClient == nil {
		return
	}

	l := ctxPkg.WithTraceContext(ctx, *nlog.Logger())

	payload := queue.FileUploadedPayload{
		FileID:    file.ID,
		OwnerID:   file.OwnerID,
		ObjectKey: file.ObjectKey,
	}

	msg, err := queue.NewWatermillMessage(queue.TopicFileUploaded, payload, queue.WithProducer("archivault"))
	if err == nil {
		err = fs.mqClient.Publish(ctx, queue.TopicFileUploaded, msg)
	}

	if err != nil {
		l.Warn().Err(err).Uint("file_id", file.ID).Msg("publish file uploaded event failed")
	}
}

func (fs *FileService) publishRelocated(ctx context.Context, fileID uint, locationID *uint) {
	if fs.mqClient == nil {
		return
	}

	l := ctxPkg.WithTraceContext(ctx, *nlog.Logger())

	payload := queue.FileRelocatedPayload{FileID: fileID, LocationID: locationID}

	msg, err := queue.NewWatermillMessage(queue.TopicFileRelocated, payload, queue.WithProducer("archivault"))
	if err == nil {
		err = fs.mqClient.Publish(ctx, queue.TopicFileRelocated, msg)
	}

	if err != nil {
		l.Warn().Err(err).Uint("file_id", fileID).Msg("publish file relocated event failed")
	}
}

func (fs *FileService) publishScanned(ctx context.Context, fileID, userID uint, path string) {
	if fs.mqClient == nil {
		return
	}

	l := ctxPkg.WithTraceContext(ctx, *nlog.Logger())

	payload := queue.FileScannedPayload{FileID: fileID, UserID: userID, Path: path}

	msg, err := queue.NewWatermillMessage(queue.TopicFileScanned, payload, queue.WithProducer("archivault"))
	if err == nil {
		err = fs.mqClient.Publish(ctx, queue.TopicFileScanned, msg)
	}

	if err != nil {
		l.Warn().Err(err).Uint("file_id", fileID).Msg("publish file scanned event failed")
	}
}

package order

import (
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"orderflow/bizerror"
	"orderflow/client/s3"
	"orderflow/common"
	"orderflow/domain"
	"orderflow/persistence"
	"orderflow/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	attachmentIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	DetailAttachmentFunc = DetailAttachment
)

type StageAttachmentUpload struct {
	FileName string
	Content  io.Reader
}

// BuildAttachmentFileName builds the storage handle
// {orderId}_{stageId}_{YYYYMMDDHHMMSS}_{originalName}. The layout is a
// compatibility contract, downstream tooling parses it.
func BuildAttachmentFileName(orderId, stageId types.ID, at types.Timestamp, originalName string) string {
	return fmt.Sprintf("%s_%s_%s_%s", orderId.String(), stageId.String(),
		at.Time().Format("20060102150405"), SanitizeFileName(originalName))
}

// SanitizeFileName strips directories and traversal sequences from a
// client supplied name.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "attachment"
	}
	return name
}

func attachmentObjectKey(fileName string) string {
	return "attachments/" + fileName
}

func saveAttachment(tx *gorm.DB, w *domain.WorkOrder, stage *domain.OrderStage,
	upload *StageAttachmentUpload, at types.Timestamp, sec *session.Context) (*domain.StageAttachment, error) {

	fileName := BuildAttachmentFileName(w.ID, stage.ID, at, upload.FileName)
	if err := s3.PutObjectFunc(attachmentObjectKey(fileName), upload.Content, sec); err != nil {
		return nil, err
	}

	attachment := domain.StageAttachment{ID: common.NextId(attachmentIdWorker),
		OrderID: w.ID, StageID: stage.ID, FileName: fileName, UploadTime: at}
	if err := tx.Create(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DetailAttachment streams back the stored bytes of an attachment the
// actor is allowed to see.
func DetailAttachment(fileName string, sec *session.Context) ([]byte, error) {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)

	attachment := domain.StageAttachment{}
	if err := db.Where(&domain.StageAttachment{FileName: fileName}).First(&attachment).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}

	workOrder := domain.WorkOrder{}
	if err := db.Where(&domain.WorkOrder{ID: attachment.OrderID}).First(&workOrder).Error; err != nil {
		return nil, err
	}
	visible, err := isOrderVisible(db, &workOrder, sec)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, bizerror.ErrForbidden
	}

	r, err := s3.GetObjectFunc(attachmentObjectKey(fileName), sec)
	if err != nil {
		if serErr, ok := err.(oss.ServiceError); ok && serErr.Code == "NoSuchKey" {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	defer r.Close()
	return ioutil.ReadAll(r)
}

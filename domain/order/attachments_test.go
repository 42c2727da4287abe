package order_test

import (
	"io"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"orderflow/authority"
	"orderflow/bizerror"
	"orderflow/client/s3"
	"orderflow/domain"
	"orderflow/domain/order"
	"orderflow/session"
	"orderflow/testinfra"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestBuildAttachmentFileName(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should compose orderId, stageId, timestamp and sanitized name", func(t *testing.T) {
		at := types.TimestampOfDate(2025, time.March, 14, 15, 9, 26, 0, time.Local)
		name := order.BuildAttachmentFileName(12, 34, at, "检验报告.pdf")
		Expect(name).To(Equal("12_34_20250314150926_检验报告.pdf"))
	})

	t.Run("should neutralize traversal attempts", func(t *testing.T) {
		Expect(order.SanitizeFileName("../../etc/passwd")).To(Equal("passwd"))
		Expect(order.SanitizeFileName(`..\..\boot.ini`)).To(Equal("boot.ini"))
		Expect(order.SanitizeFileName("report..pdf")).To(Equal("reportpdf"))
		Expect(order.SanitizeFileName("  ")).To(Equal("attachment"))
		Expect(order.SanitizeFileName("..")).To(Equal("attachment"))
		Expect(order.SanitizeFileName("dir/report.pdf")).To(Equal("report.pdf"))
	})
}

func TestDetailAttachment(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	prepare := func(t *testing.T) (*domain.WorkOrderDetail, string) {
		created := prepareOrder(t, 200)
		s3.PutObjectFunc = func(key string, r io.Reader, sec *session.Context, opts ...oss.Option) error {
			return nil
		}
		upload := order.StageAttachmentUpload{FileName: "report.pdf", Content: strings.NewReader("pdf bytes")}
		_, err := order.TransitionWorkOrder(&domain.WorkOrderTransition{OrderID: created.ID,
			NextStageName: "质检", NextAssigneeID: 300}, &upload, testinfra.BuildSecCtx(200))
		Expect(err).To(BeNil())

		attachment := domain.StageAttachment{}
		Expect(testDatabase.DS.GormDB(nil).Where(&domain.StageAttachment{OrderID: created.ID}).
			First(&attachment).Error).To(BeNil())
		return created, attachment.FileName
	}

	t.Run("should stream back bytes for actors who can see the order", func(t *testing.T) {
		defer ordersTestTeardown(t, testDatabase)
		ordersTestSetup(t, &testDatabase)
		_, fileName := prepare(t)

		s3.GetObjectFunc = func(key string, sec *session.Context, opts ...oss.Option) (io.ReadCloser, error) {
			Expect(key).To(Equal("attachments/" + fileName))
			return ioutil.NopCloser(strings.NewReader("pdf bytes")), nil
		}

		// past assignee of the order
		data, err := order.DetailAttachment(fileName, testinfra.BuildSecCtx(200))
		Expect(err).To(BeNil())
		Expect(string(data)).To(Equal("pdf bytes"))

		// admin
		data, err = order.DetailAttachment(fileName, testinfra.BuildSecCtx(1, authority.SystemAdminPermission))
		Expect(err).To(BeNil())
		Expect(string(data)).To(Equal("pdf bytes"))
	})

	t.Run("should hide attachments of invisible orders", func(t *testing.T) {
		defer ordersTestTeardown(t, testDatabase)
		ordersTestSetup(t, &testDatabase)
		_, fileName := prepare(t)

		_, err := order.DetailAttachment(fileName, testinfra.BuildSecCtx(999))
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})

	t.Run("should map unknown records and missing blobs to not found", func(t *testing.T) {
		defer ordersTestTeardown(t, testDatabase)
		ordersTestSetup(t, &testDatabase)
		_, fileName := prepare(t)

		_, err := order.DetailAttachment("no-such-file", testinfra.BuildSecCtx(200))
		Expect(err).To(Equal(bizerror.ErrNotFound))

		s3.GetObjectFunc = func(key string, sec *session.Context, opts ...oss.Option) (io.ReadCloser, error) {
			return nil, oss.ServiceError{Code: "NoSuchKey"}
		}
		_, err = order.DetailAttachment(fileName, testinfra.BuildSecCtx(200))
		Expect(err).To(Equal(bizerror.ErrNotFound))
	})
}

package servehttp_test

import (
	"bytes"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"orderflow/bizerror"
	"orderflow/domain"
	"orderflow/domain/order"
	"orderflow/servehttp"
	"orderflow/session"
	"orderflow/testinfra"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func transitionBeforeEach() {
	router = gin.Default()
	router.Use(bizerror.ErrorHandling())
	servehttp.RegisterOrderTransitionRestAPI(router)
}

func TestCreateOrderTransitionAPI(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should serve a json transition request", func(t *testing.T) {
		transitionBeforeEach()

		order.TransitionWorkOrderFunc = func(c *domain.WorkOrderTransition, upload *order.StageAttachmentUpload,
			sec *session.Context) (*domain.WorkOrder, error) {
			Expect(*c).To(Equal(domain.WorkOrderTransition{OrderID: 123, NextStageName: "质检",
				NextAssigneeID: 300, Comment: "ok"}))
			Expect(upload).To(BeNil())
			return &domain.WorkOrder{ID: 123, CurrentStage: "质检", CurrentAssigneeID: 300}, nil
		}

		reqBody := `{"orderId":"123","nextStageName":"质检","nextAssigneeId":"300","comment":"ok"}`
		req := httptest.NewRequest(http.MethodPost, servehttp.PathOrderTransitions, bytes.NewReader([]byte(reqBody)))
		req.Header.Set("Content-Type", "application/json")
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
	})

	t.Run("should return 400 when json validate failed", func(t *testing.T) {
		transitionBeforeEach()

		req := httptest.NewRequest(http.MethodPost, servehttp.PathOrderTransitions, bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{
			"code": "common.bad_param",
			"message": "Key: 'WorkOrderTransition.OrderID' Error:Field validation for 'OrderID' failed on the 'required' tag\n` +
			`Key: 'WorkOrderTransition.NextStageName' Error:Field validation for 'NextStageName' failed on the 'required' tag",
			"data": null
		}`))
	})

	t.Run("should serve a multipart transition with attachment", func(t *testing.T) {
		transitionBeforeEach()

		order.TransitionWorkOrderFunc = func(c *domain.WorkOrderTransition, upload *order.StageAttachmentUpload,
			sec *session.Context) (*domain.WorkOrder, error) {
			Expect(*c).To(Equal(domain.WorkOrderTransition{OrderID: 123, NextStageName: "质检",
				NextAssigneeID: 300, Comment: "with report"}))
			Expect(upload).ToNot(BeNil())
			Expect(upload.FileName).To(Equal("report.pdf"))
			content, err := ioutil.ReadAll(upload.Content)
			Expect(err).To(BeNil())
			Expect(string(content)).To(Equal("pdf bytes"))
			return &domain.WorkOrder{ID: 123, CurrentStage: "质检", CurrentAssigneeID: 300}, nil
		}

		buf := bytes.Buffer{}
		w := multipart.NewWriter(&buf)
		Expect(w.WriteField("orderId", "123")).To(BeNil())
		Expect(w.WriteField("nextStageName", "质检")).To(BeNil())
		Expect(w.WriteField("nextAssigneeId", "300")).To(BeNil())
		Expect(w.WriteField("comment", "with report")).To(BeNil())
		fw, err := w.CreateFormFile("attachment", "report.pdf")
		Expect(err).To(BeNil())
		_, err = fw.Write([]byte("pdf bytes"))
		Expect(err).To(BeNil())
		Expect(w.Close()).To(BeNil())

		req := httptest.NewRequest(http.MethodPost, servehttp.PathOrderTransitions, &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
	})

	t.Run("should serve a multipart transition without attachment", func(t *testing.T) {
		transitionBeforeEach()

		order.TransitionWorkOrderFunc = func(c *domain.WorkOrderTransition, upload *order.StageAttachmentUpload,
			sec *session.Context) (*domain.WorkOrder, error) {
			Expect(upload).To(BeNil())
			return &domain.WorkOrder{ID: 123, CurrentStage: domain.StageCompleted}, nil
		}

		buf := bytes.Buffer{}
		w := multipart.NewWriter(&buf)
		Expect(w.WriteField("orderId", "123")).To(BeNil())
		Expect(w.WriteField("nextStageName", domain.StageCompleted)).To(BeNil())
		Expect(w.Close()).To(BeNil())

		req := httptest.NewRequest(http.MethodPost, servehttp.PathOrderTransitions, &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
	})

	t.Run("should return 400 on malformed multipart fields", func(t *testing.T) {
		transitionBeforeEach()

		buf := bytes.Buffer{}
		w := multipart.NewWriter(&buf)
		Expect(w.WriteField("orderId", "abc")).To(BeNil())
		Expect(w.WriteField("nextStageName", "质检")).To(BeNil())
		Expect(w.Close()).To(BeNil())

		req := httptest.NewRequest(http.MethodPost, servehttp.PathOrderTransitions, &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid orderId 'abc'","data":null}`))
	})

	t.Run("should map transition conflicts", func(t *testing.T) {
		transitionBeforeEach()

		order.TransitionWorkOrderFunc = func(c *domain.WorkOrderTransition, upload *order.StageAttachmentUpload,
			sec *session.Context) (*domain.WorkOrder, error) {
			return nil, bizerror.ErrOrderCompleted
		}
		reqBody := `{"orderId":"123","nextStageName":"质检","nextAssigneeId":"300"}`
		req := httptest.NewRequest(http.MethodPost, servehttp.PathOrderTransitions, bytes.NewReader([]byte(reqBody)))
		req.Header.Set("Content-Type", "application/json")
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusConflict))
		Expect(body).To(MatchJSON(`{"code":"order.completed","message":"order is completed","data":null}`))
	})
}

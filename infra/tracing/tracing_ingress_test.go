package tracing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"orderflow/common"
	"orderflow/infra/tracing"
	"orderflow/testinfra"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	. "github.com/onsi/gomega"
)

func TestTracingIngress(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should open a server span tagged with the service identity", func(t *testing.T) {
		tracer := mocktracer.New()
		opentracing.SetGlobalTracer(tracer)
		defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

		router := gin.Default()
		router.Use(tracing.TracingIngress())
		router.GET("/orders", func(ctx *gin.Context) {
			Expect(opentracing.SpanFromContext(ctx.Request.Context())).ToNot(BeNil())
			ctx.Status(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))

		spans := tracer.FinishedSpans()
		Expect(len(spans)).To(Equal(1))
		Expect(spans[0].OperationName).To(Equal("GET /orders"))
		Expect(spans[0].Tags()["component"]).To(Equal(common.GetServiceName()))
		Expect(spans[0].Tags()["http.status_code"]).To(Equal(uint16(http.StatusNoContent)))
	})
}

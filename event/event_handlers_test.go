package event_test

import (
	"testing"

	"orderflow/event"

	. "github.com/onsi/gomega"
)

func TestInvokeHandlers(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should collect results of concerned handlers only", func(t *testing.T) {
		defer func() { event.EventHandlers = nil }()

		handled := []event.EventRecord{}
		event.EventHandlers = []event.EventHandler{
			func(e *event.EventRecord) *event.EventHandleResult {
				return nil // not my concern
			},
			func(e *event.EventRecord) *event.EventHandleResult {
				handled = append(handled, *e)
				return &event.EventHandleResult{Success: true, HandlerIdentifier: "recorder"}
			},
			func(e *event.EventRecord) *event.EventHandleResult {
				return &event.EventHandleResult{Success: false, Message: "boom", HandlerIdentifier: "failing"}
			},
		}

		record := event.EventRecord{Event: event.Event{SourceType: event.SourceTypeWorkOrder, SourceId: 1}}
		results := event.InvokeHandlersFunc(&record)
		Expect(len(results)).To(Equal(2))
		Expect(results[0]).To(Equal(event.EventHandleResult{Success: true, HandlerIdentifier: "recorder"}))
		Expect(results[1].Success).To(BeFalse())
		Expect(len(handled)).To(Equal(1))
	})
}

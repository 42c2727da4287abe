package search_test

import (
	"encoding/json"
	"testing"

	"orderflow/authority"
	"orderflow/client/es"
	"orderflow/indices"
	"orderflow/indices/search"
	"orderflow/session"
	"orderflow/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestSearchWorkOrders(t *testing.T) {
	RegisterTestingT(t)

	defer func() { es.SearchFunc = es.Search }()

	t.Run("should decode matched documents", func(t *testing.T) {
		es.SearchFunc = func(index string, query interface{}, sec *session.Context) (*es.ESSearchResult, error) {
			Expect(index).To(Equal(indices.OrderIndexName))
			return &es.ESSearchResult{Hits: es.ESSearchHits{Hits: []es.ESSearchHit{
				{Source: es.Source(`{"id":"123","orderNumber":"SO-001","currentStage":"质检","assigneeIds":["100","300"]}`)},
			}}}, nil
		}

		docs, err := search.SearchWorkOrders(&search.OrderSearchQuery{Query: "SO-001"},
			testinfra.BuildSecCtx(1, authority.SystemAdminPermission))
		Expect(err).To(BeNil())
		Expect(len(docs)).To(Equal(1))
		Expect(docs[0].ID).To(Equal(types.ID(123)))
		Expect(docs[0].OrderNumber).To(Equal("SO-001"))
		Expect(docs[0].AssigneeIDs).To(Equal([]types.ID{100, 300}))
	})

	t.Run("should scope the query to the actor unless admin", func(t *testing.T) {
		var captured interface{}
		es.SearchFunc = func(index string, query interface{}, sec *session.Context) (*es.ESSearchResult, error) {
			captured = query
			return &es.ESSearchResult{}, nil
		}

		_, err := search.SearchWorkOrders(&search.OrderSearchQuery{Query: "SO"}, testinfra.BuildSecCtx(100))
		Expect(err).To(BeNil())
		queryJson, err := json.Marshal(captured)
		Expect(err).To(BeNil())
		// types.ID marshals as a number inside map values, matching the
		// by-value encoding of the indexed documents
		Expect(string(queryJson)).To(ContainSubstring(`"salespersonId":100`))
		Expect(string(queryJson)).To(ContainSubstring(`"assigneeIds":[100]`))

		_, err = search.SearchWorkOrders(&search.OrderSearchQuery{Query: "SO"},
			testinfra.BuildSecCtx(1, authority.SystemAdminPermission))
		Expect(err).To(BeNil())
		queryJson, err = json.Marshal(captured)
		Expect(err).To(BeNil())
		Expect(string(queryJson)).ToNot(ContainSubstring("salespersonId"))
	})
}

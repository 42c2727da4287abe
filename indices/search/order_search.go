package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"orderflow/client/es"
	"orderflow/indices"
	"orderflow/session"
)

var (
	SearchWorkOrdersFunc = SearchWorkOrders
)

type OrderSearchQuery struct {
	Query string `json:"q" form:"q" binding:"required" validate:"required"`
}

// SearchWorkOrders matches order number and stage names in the order
// index. Non-admin actors only see orders they sell or ever worked on,
// the same rule the database queries apply.
func SearchWorkOrders(q *OrderSearchQuery, sec *session.Context) ([]indices.OrderDocument, error) {
	filters := make([]es.H, 0, 2)
	filters = append(filters, es.H{"bool": es.H{"should": []es.H{
		{"match": es.H{"orderNumber": es.H{"query": q.Query, "operator": "AND"}}},
		{"match": es.H{"stageNames": es.H{"query": q.Query, "operator": "AND"}}},
		{"match": es.H{"currentStage": es.H{"query": q.Query, "operator": "AND"}}},
	}, "minimum_should_match": 1}})

	if !sec.IsAdmin() {
		filters = append(filters, es.H{"bool": es.H{"should": []es.H{
			{"term": es.H{"salespersonId": sec.Identity.ID}},
			{"terms": es.H{"assigneeIds": []interface{}{sec.Identity.ID}}},
		}, "minimum_should_match": 1}})
	}

	root := es.H{"bool": es.H{"filter": filters}}
	r, err := es.SearchFunc(indices.OrderIndexName, es.H{"size": 10000, "query": root}, sec)
	if err != nil {
		return nil, err
	}

	docs := make([]indices.OrderDocument, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := indices.OrderDocument{}
		if err := json.NewDecoder(strings.NewReader(string(hit.Source))).Decode(&doc); err != nil {
			return nil, fmt.Errorf(string(hit.Source))
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

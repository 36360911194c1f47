package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookmarksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmarkd_bookmarks_created_total",
		Help: "Bookmarks successfully created.",
	})

	BookmarksDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmarkd_bookmarks_deleted_total",
		Help: "Bookmarks deleted by their owner.",
	})

	URLConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmarkd_url_conflicts_total",
		Help: "Create or update attempts rejected because the URL already exists.",
	})

	TokensIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmarkd_tokens_issued_total",
		Help: "API tokens issued via the API or CLI.",
	})
)

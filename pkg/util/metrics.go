package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart store mutations by operation",
	}, []string{"operation"})

	OrdersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_submitted_total",
		Help: "Order submissions by outcome",
	}, []string{"outcome"})

	CartMerges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_merges_total",
		Help: "Guest cart merges by outcome",
	}, []string{"outcome"})
)

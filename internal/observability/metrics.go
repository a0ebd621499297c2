// Package observability exposes the application's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts successful account registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "familynest_registrations_total",
		Help: "Total number of successful account registrations",
	})

	// LoginsTotal counts successful logins.
	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "familynest_logins_total",
		Help: "Total number of successful logins",
	})

	// WishlistItemsAddedTotal counts items appended to wishlists.
	WishlistItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "familynest_wishlist_items_added_total",
		Help: "Total number of wishlist items added",
	})

	// WishlistItemsRemovedTotal counts items removed from wishlists.
	WishlistItemsRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "familynest_wishlist_items_removed_total",
		Help: "Total number of wishlist items removed",
	})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Number of successfully registered users.",
	})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Number of login attempts by outcome.",
	}, []string{"outcome"})

	TokenPairsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_token_pairs_issued_total",
		Help: "Number of access/refresh token pairs issued.",
	})

	RefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_refreshes_total",
		Help: "Number of access token refreshes by outcome.",
	}, []string{"outcome"})

	RevocationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_revocations_total",
		Help: "Number of refresh tokens revoked via logout.",
	})

	ExpiredTokensDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_expired_tokens_deleted_total",
		Help: "Number of expired refresh tokens removed by the cleanup job.",
	})
)

// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api exposes the protocol over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/meridianchain/meridian/api/node"
	"github.com/meridianchain/meridian/api/proposals"
	"github.com/meridianchain/meridian/api/subnets"
	"github.com/meridianchain/meridian/api/validators"
	"github.com/meridianchain/meridian/staking"
)

type Options struct {
	AllowedOrigins  string
	EnableReqLogger bool
	EnableMetrics   bool
}

// New returns the http handler serving the full protocol API.
func New(stk *staking.Staking, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	subnets.New(stk).
		Mount(router, "/subnets")
	validators.New(stk).
		Mount(router, "/validators")
	proposals.New(stk).
		Mount(router, "/proposals")
	node.New(stk).
		Mount(router, "/node")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, zap.S().With("pkg", "api"))
	}

	return handler.ServeHTTP
}

// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/meridianchain/meridian/genesis"
	"github.com/meridianchain/meridian/metrics"
	"github.com/meridianchain/meridian/store"
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".meridian")
}

func initLogger(ctx *cli.Context) *zap.SugaredLogger {
	var level zapcore.Level
	switch ctx.Int(verbosityFlag.Name) {
	case 0:
		level = zapcore.ErrorLevel
	case 1:
		level = zapcore.WarnLevel
	case 2, 3:
		level = zapcore.InfoLevel
	default:
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	return logger.Sugar().With("pkg", "main")
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.Dev(), nil
	}
	return genesis.Load(path)
}

func openStore(ctx *cli.Context) (*store.Store, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.New("data-dir is not set")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	return store.Open(filepath.Join(dataDir, "state"))
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}

	srv := &http.Server{Handler: handler}
	done := make(chan struct{})
	go func() {
		srv.Serve(listener)
		close(done)
	}()
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		<-done
	}, nil
}

func startMetricsServer(ctx *cli.Context, logger *zap.SugaredLogger) (func(), error) {
	metrics.InitializePrometheusMetrics()

	addr := ctx.String(metricsAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}
	logger.Infow("metrics served", "addr", "http://"+listener.Addr().String()+"/metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Handler: mux}
	done := make(chan struct{})
	go func() {
		srv.Serve(listener)
		close(done)
	}()
	return func() {
		srv.Close()
		<-done
	}, nil
}

func handleExitSignal() <-chan os.Signal {
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
	return exitSignalCh
}

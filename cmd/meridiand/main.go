// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"net/http"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/meridianchain/meridian/api"
	"github.com/meridianchain/meridian/genesis"
	"github.com/meridianchain/meridian/ledger"
	"github.com/meridianchain/meridian/staking"
	"github.com/meridianchain/meridian/store"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "Meridian",
		Usage:   "Node of the Meridian staking network",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			enableAPILogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			verbosityFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "dev",
				Usage: "run an ephemeral dev network, state is not persisted",
				Flags: []cli.Flag{
					apiAddrFlag,
					apiCorsFlag,
					enableAPILogsFlag,
					verbosityFlag,
				},
				Action: devAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	logger := initLogger(ctx)
	defer func() { logger.Info("exited") }()

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	params, genesisLedger, err := gene.Build()
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state store..."); st.Close() }()

	state, err := st.LoadState()
	if err != nil {
		return err
	}

	pool := genesisLedger
	if state != nil {
		pool = ledger.NewMem(store.BalanceMap(state.Balances))
	}
	stk, err := staking.New(pool, params)
	if err != nil {
		return err
	}
	if state != nil {
		if err := stk.Restore(state.Staking); err != nil {
			return err
		}
		logger.Infow("restored state",
			"validators", stk.ValidatorCount(),
			"subnets", len(stk.SubnetIDs()),
			"totalStaked", stk.TotalStaked(),
		)
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		stopMetrics, err := startMetricsServer(ctx, logger)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stopMetrics() }()
	}

	apiURL, stopAPI, err := startAPIServer(ctx, apiHandler(ctx, stk))
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	printStartupMessage(stk, apiURL)

	<-handleExitSignal()

	logger.Info("saving state...")
	return st.SaveState(&store.State{
		Staking:  stk.Snapshot(),
		Balances: store.BalancesOf(pool.Snapshot()),
	})
}

func devAction(ctx *cli.Context) error {
	logger := initLogger(ctx)
	defer func() { logger.Info("exited") }()

	params, pool, err := genesis.Dev().Build()
	if err != nil {
		return err
	}
	stk, err := staking.New(pool, params)
	if err != nil {
		return err
	}

	apiURL, stopAPI, err := startAPIServer(ctx, apiHandler(ctx, stk))
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	printStartupMessage(stk, apiURL)

	<-handleExitSignal()
	return nil
}

func apiHandler(ctx *cli.Context, stk *staking.Staking) http.HandlerFunc {
	return api.New(stk, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
}

func printStartupMessage(stk *staking.Staking, apiURL string) {
	fmt.Printf(`Starting Meridian %v
    Owner        [ %v ]
    Min stake    [ %v ]
    Threshold    [ %v%% ]
    Validators   [ %v ]
    API portal   [ %v ]
`,
		fullVersion(),
		stk.Owner(),
		stk.MinStake(),
		stk.ConsensusThreshold(),
		stk.ValidatorCount(),
		apiURL)
}

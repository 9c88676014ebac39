// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/fortunevm/api/jsonrpc"
	"github.com/ava-labs/fortunevm/pubsub"
	"github.com/ava-labs/fortunevm/utils"
	"github.com/ava-labs/fortunevm/vm"
)

const (
	EventsEndpoint  = "/events"
	MetricsEndpoint = "/metrics"

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func newServeCmd(f *fortune) *cobra.Command {
	var (
		addr         string
		slotInterval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve [genesis]",
		Short: "Serve a FortuneVM node over JSON-RPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			genesisBytes, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			cfg, err := f.Config()
			if err != nil {
				return err
			}
			v, err := vm.New(cmd.Context(), f.log, cfg, genesisBytes)
			if err != nil {
				return err
			}
			defer v.Close()

			n, err := newNode(f.log, v)
			if err != nil {
				return err
			}
			defer n.Close()
			utils.Outf("{{green}}serving{{/}} %s (slot %d)\n", addr, v.Slot())
			return n.Serve(cmd.Context(), addr, slotInterval)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9650", "address to listen on")
	cmd.Flags().DurationVar(&slotInterval, "slot-interval", 0, "advance the slot on this interval, never when zero")
	return cmd
}

// node exposes a VM over http: JSON-RPC, an event feed and metrics.
type node struct {
	log    logging.Logger
	vm     *vm.VM
	events *pubsub.Server
	router *mux.Router
}

func newNode(log logging.Logger, v *vm.VM) (*node, error) {
	rpc, err := jsonrpc.NewHandler(v)
	if err != nil {
		return nil, err
	}
	n := &node{
		log:    log,
		vm:     v,
		events: pubsub.New(log, pubsub.NewDefaultConfig()),
		router: mux.NewRouter(),
	}
	n.router.Handle(rpc.Path, rpc.Handler).Methods(http.MethodPost)
	n.router.Handle(EventsEndpoint, n.events)
	n.router.Handle(MetricsEndpoint, promhttp.HandlerFor(v.Gatherer(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	v.Subscribe(n.publish)
	return n, nil
}

func (n *node) publish(e *vm.Event) {
	b, err := json.Marshal(e)
	if err != nil {
		n.log.Warn("unable to encode event", zap.Error(err))
		return
	}
	n.events.Publish(b)
}

// Handler routes requests to the node. Cross-origin requests are allowed so
// browser wallets can reach the RPC service.
func (n *node) Handler() http.Handler {
	return cors.Default().Handler(n.router)
}

// Serve blocks until [ctx] is done or the listener fails.
func (n *node) Serve(ctx context.Context, addr string, slotInterval time.Duration) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           n.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if slotInterval > 0 {
		g.Go(func() error {
			n.advanceSlots(gctx, slotInterval)
			return nil
		})
	}
	n.log.Info("serving",
		zap.String("addr", addr),
		zap.Duration("slotInterval", slotInterval),
	)
	return g.Wait()
}

func (n *node) advanceSlots(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			if _, err := n.vm.AdvanceSlot(ctx); err != nil {
				n.log.Warn("unable to advance slot", zap.Error(err))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (n *node) Close() {
	n.events.Close()
}

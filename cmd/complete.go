package cmd

import (
	"context"
	"slices"
	"time"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Completion runs the shell completion of stk if the shell asked for it, in
// which case it exits. Otherwise it returns.
//
// Completion is installed with `COMP_INSTALL=1 stk`.
func Completion(name string) {
	items := complete.PredictFunc(func(prefix string) []string {
		return itemNames()
	})
	snapshots := predict.Files("*.json")

	cmd := &complete.Command{
		Sub: map[string]*complete.Command{
			"add": {Args: items},
			"remove": {
				Flags: map[string]complete.Predictor{"all": predict.Nothing},
				Args:  items,
			},
			"list":   {},
			"status": {Flags: map[string]complete.Predictor{"check": predict.Nothing}},
			"shell":  {},
			"fmt":    {Flags: map[string]complete.Predictor{"n": predict.Nothing}},
			"import": {
				Flags: map[string]complete.Predictor{"path": predict.Something},
				Args:  snapshots,
			},
			"export": {Flags: map[string]complete.Predictor{"o": predict.Files("*.xlsx")}},
			"topic":  {Flags: map[string]complete.Predictor{"l": predict.Nothing}, Args: complete.PredictFunc(topicNames)},
			"help":   {},
		},
		Flags: map[string]complete.Predictor{
			"f":        snapshots,
			"store":    predict.Something,
			"capacity": predict.Something,
			"config":   predict.Files("*.yaml"),
			"v":        predict.Nothing,
		},
	}
	cmd.Complete(name)
}

// itemNames returns the names in the configured snapshot, or nothing if it
// cannot be read.
func itemNames() []string {
	log.Logger = zerolog.Nop()
	cfg, err := Settings()
	if err != nil {
		return nil
	}
	store, err := OpenStore(cfg)
	if err != nil {
		return nil
	}
	defer closeStore(store)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ledger, err := store.Load(ctx)
	if err != nil {
		return nil
	}
	return slices.Collect(ledger.Names())
}

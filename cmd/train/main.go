// Package main is the offline model-training pipeline placeholder. The
// serving path never depends on it; parameters come from the estimator
// until trained models land.
package main

import (
	"flag"

	"go.uber.org/zap"
)

func main() {
	dataset := flag.String("dataset", "", "Path to the historical price dataset")
	out := flag.String("out", "./models", "Output directory for trained models")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting offline training",
		zap.String("dataset", *dataset),
		zap.String("out", *out),
	)

	// TODO: implement once a return model is selected. Planned stages:
	// download dataset, build rolling 1y/3y return and volatility
	// features, fit the return and volatility models, serialize to out.
	logger.Warn("Training pipeline is not implemented; nothing was trained")
}

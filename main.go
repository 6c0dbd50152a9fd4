package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"censusnet/dataset"
	"censusnet/neuralnet"
)

func main() {
	configPath := flag.String("config", "", "YAML run configuration")
	dataPath := flag.String("data", "", "census CSV file, overrides the config")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatalf("Error loading config: %v", err)
	}
	if *dataPath != "" {
		cfg.Data = *dataPath
	}

	train, test, err := run(cfg, logger)
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}
	report(os.Stdout, train, test)
}

// report prints the final accuracies; a negative test accuracy means no
// holdout was evaluated.
func report(w io.Writer, train, test float64) {
	fmt.Fprintf(w, "Accuracy: %.2f%%\n", train*100)
	if test >= 0 {
		fmt.Fprintf(w, "Holdout accuracy: %.2f%%\n", test*100)
	}
}

// run trains a network as described by cfg and returns its accuracy on the
// training set and on the holdout set (-1 without a holdout).
func run(cfg *Config, logger *log.Logger) (trainAcc, testAcc float64, err error) {
	ds, err := loadCensus(cfg.Data)
	if err != nil {
		return 0, 0, err
	}
	logger.Printf("Loaded %d samples from %s", len(ds), cfg.Data)

	train, test, err := prepare(ds, cfg)
	if err != nil {
		return 0, 0, err
	}

	nn := neuralnet.NewNeuralNetwork(dataset.NumFeatures, cfg.Hidden, dataset.NumClasses)
	nn.Init(cfg.InitSeed, cfg.InitScale)
	logger.Printf("Network:\n%s", nn)

	fit := neuralnet.FitConfig{BatchSize: cfg.BatchSize, Epochs: cfg.Epochs}
	if cfg.Verbose {
		fit.Callback = &neuralnet.VerboseCallback{Logger: logger, Epochs: cfg.Epochs, Batches: cfg.LogBatches}
	}
	if _, err := neuralnet.Fit(nn, newOptimizer(cfg), train.X, train.Y, fit); err != nil {
		return 0, 0, err
	}

	if trainAcc, err = neuralnet.Evaluate(nn, train.X, train.Y); err != nil {
		return 0, 0, err
	}
	testAcc = -1
	if test != nil {
		if testAcc, err = neuralnet.Evaluate(nn, test.X, test.Y); err != nil {
			return 0, 0, err
		}
	}
	return trainAcc, testAcc, nil
}

func newOptimizer(cfg *Config) neuralnet.Optimizer {
	if cfg.Optimizer == "sgd" {
		return neuralnet.NewSGD(neuralnet.SGDConfig{LR: cfg.LearningRate, Decay: cfg.Decay})
	}
	return neuralnet.NewAdam(neuralnet.AdamConfig{LR: cfg.LearningRate})
}

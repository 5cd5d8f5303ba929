// Package main provides the Drift ML training CLI: it trains a
// feed-forward digit classifier on MNIST and reports test accuracy.
package main

import (
	"flag"
	"log"

	"github.com/drift-ml/drift/autodiff"
	"github.com/drift-ml/drift/backend/cpu"
	"github.com/drift-ml/drift/dataset/mnist"
	"github.com/drift-ml/drift/infer"
	"github.com/drift-ml/drift/internal/config"
	"github.com/drift-ml/drift/nn"
	"github.com/drift-ml/drift/optim"
	"github.com/drift-ml/drift/train"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (flags override it)")
	dataDir := flag.String("data", "", "Directory with MNIST IDX files (empty = synthetic data)")
	epochs := flag.Int("epochs", 0, "Number of training epochs")
	batchSize := flag.Int("batch", 0, "Batch size")
	lr := flag.Float64("lr", 0, "Learning rate")
	momentum := flag.Float64("momentum", -1, "SGD momentum in [0, 1)")
	hidden := flag.Int("hidden", 0, "Hidden layer width")
	seed := flag.Int64("seed", 0, "Seed for init and shuffling (0 = config default)")
	limit := flag.Int("limit", 0, "Max training samples (0 = all)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	applyFlags(&cfg, *dataDir, *epochs, *batchSize, float32(*lr), float32(*momentum), *hidden, *seed, *limit)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func applyFlags(cfg *config.Config, dataDir string, epochs, batchSize int, lr, momentum float32, hidden int, seed int64, limit int) {
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if epochs > 0 {
		cfg.Epochs = epochs
	}
	if batchSize > 0 {
		cfg.BatchSize = batchSize
	}
	if lr > 0 {
		cfg.LearningRate = lr
	}
	if momentum >= 0 {
		cfg.Momentum = momentum
	}
	if hidden > 0 {
		cfg.HiddenSize = hidden
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if limit > 0 {
		cfg.Limit = limit
	}
}

// backendT is the concrete backend the CLI trains on.
type backendT = *autodiff.Backend[*cpu.Backend]

func run(cfg config.Config) error {
	backend := autodiff.New(cpu.New())
	nn.SeedInit(cfg.Seed)

	trainData, testData, err := loadData(cfg)
	if err != nil {
		return err
	}
	log.Printf("dataset train=%d test=%d", trainData.NumSamples(), testData.NumSamples())

	model, err := nn.NewMLP(backend, mnist.ImageSize, cfg.HiddenSize, mnist.NumClasses)
	if err != nil {
		return err
	}
	loss := nn.NewNLLLoss[backendT]()

	optimizer, err := optim.NewSGD(model.Parameters(), optim.SGDConfig{
		LR:       cfg.LearningRate,
		Momentum: cfg.Momentum,
	})
	if err != nil {
		return err
	}

	trainLoader, err := mnist.NewLoader(trainData, backend, cfg.BatchSize, true, cfg.Seed)
	if err != nil {
		return err
	}

	trainer, err := train.New[backendT](model, loss, optimizer, trainLoader, backend)
	if err != nil {
		return err
	}

	log.Printf("training epochs=%d batch_size=%d lr=%v momentum=%v hidden=%d seed=%d",
		cfg.Epochs, cfg.BatchSize, cfg.LearningRate, cfg.Momentum, cfg.HiddenSize, cfg.Seed)
	if _, err := trainer.Fit(cfg.Epochs); err != nil {
		return err
	}

	testLoader, err := mnist.NewLoader(testData, backend, 256, false, cfg.Seed)
	if err != nil {
		return err
	}
	accuracy, err := infer.Accuracy[backendT](model, testLoader, mnist.NumClasses, backend)
	if err != nil {
		return err
	}
	log.Printf("test accuracy=%.4f", accuracy)
	return nil
}

func loadData(cfg config.Config) (*mnist.Data, *mnist.Data, error) {
	if cfg.DataDir == "" {
		log.Printf("no data directory given, using synthetic data")
		n := cfg.Limit
		if n == 0 {
			n = 2000
		}
		all := mnist.Synthetic(n, cfg.Seed)
		trainN := n * 4 / 5
		return all.Split(trainN)
	}

	trainData, err := mnist.Load(cfg.DataDir, "train", cfg.Limit)
	if err != nil {
		return nil, nil, err
	}
	testData, err := mnist.Load(cfg.DataDir, "test", 0)
	if err != nil {
		return nil, nil, err
	}
	return trainData, testData, nil
}

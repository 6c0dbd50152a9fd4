package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"censusnet/dataset"
)

const header = "age,workclass,fnlwgt,education,educational-num,marital-status,occupation,relationship,race,gender,capital-gain,capital-loss,hours-per-week,native-country,income\n"

func writeCensus(t *testing.T, rows int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(header)
	for i := 0; i < rows; i++ {
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d,Private,%d,Bachelors,13,Married-civ-spouse,Exec-managerial,Husband,White,Male,%d,0,%d,United-States,>50K\n",
				45+i%10, 100000+i*37, 5000+i, 50)
		} else {
			fmt.Fprintf(&sb, "%d,Private,%d,HS-grad,9,Never-married,Handlers-cleaners,Own-child,Black,Female,0,0,%d,Mexico,<=50K\n",
				20+i%10, 200000+i*13, 20)
		}
	}
	path := filepath.Join(t.TempDir(), "adult.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, []int{64, 32}, cfg.Hidden)
	assert.Equal(t, 32, cfg.BatchSize)
	assert.Equal(t, 100, cfg.Epochs)
	assert.Equal(t, 0.001, cfg.LearningRate)
	assert.Equal(t, 0.01, cfg.InitScale)
	assert.Equal(t, "adam", cfg.Optimizer)
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("epochs: 5\nhidden: [16]\nholdout: 0.25\ndegenerate: fail\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Epochs)
	assert.Equal(t, []int{16}, cfg.Hidden)
	assert.Equal(t, 0.25, cfg.Holdout)
	assert.Equal(t, 32, cfg.BatchSize)
	p, err := cfg.degeneratePolicy()
	require.NoError(t, err)
	assert.Equal(t, dataset.DegenerateFail, p)
}

func TestLoadConfigInvalid(t *testing.T) {
	for _, body := range []string{"batch_size: 0\n", "optimizer: rmsprop\n", "holdout: 1\n", "degenerate: clamp\n", "hidden: [8, 0]\n"} {
		path := filepath.Join(t.TempDir(), "run.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := loadConfig(path)
		assert.Error(t, err, body)
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := defaultConfig()
	cfg.Data = writeCensus(t, 40)
	cfg.Hidden = []int{8}
	cfg.Epochs = 60
	cfg.BatchSize = 8
	cfg.LearningRate = 0.02
	cfg.InitScale = 0
	cfg.ShuffleSeed = 7
	cfg.Holdout = 0.25
	cfg.Verbose = true

	trainAcc, testAcc, err := run(cfg, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, trainAcc, 0.9)
	assert.GreaterOrEqual(t, testAcc, 0.0)
	assert.LessOrEqual(t, testAcc, 1.0)
}

func TestRunWithSGD(t *testing.T) {
	cfg := defaultConfig()
	cfg.Data = writeCensus(t, 10)
	cfg.Optimizer = "sgd"
	cfg.Epochs = 2
	cfg.Verbose = false

	trainAcc, testAcc, err := run(cfg, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, trainAcc, 0.0)
	assert.Equal(t, -1.0, testAcc)
}

func TestRunRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adult.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"39,State-gov,77516\n"), 0o644))

	cfg := defaultConfig()
	cfg.Data = path
	_, _, err := run(cfg, log.New(io.Discard, "", 0))
	var se *dataset.SchemaError
	assert.True(t, errors.As(err, &se))
}

func TestRunDegenerateFail(t *testing.T) {
	cfg := defaultConfig()
	cfg.Data = writeCensus(t, 6)
	cfg.Degenerate = "fail"
	_, _, err := run(cfg, log.New(io.Discard, "", 0))
	var de *dataset.DegenerateFeatureError
	require.True(t, errors.As(err, &de))
	// workclass is always Private
	assert.Equal(t, 1, de.Feature)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batchsize: 8\n"), 0o644))
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.BatchSize)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	report(&buf, 0.84123, -1)
	assert.Equal(t, "Accuracy: 84.12%\n", buf.String())

	buf.Reset()
	report(&buf, 0.5, 0.25)
	assert.Equal(t, "Accuracy: 50.00%\nHoldout accuracy: 25.00%\n", buf.String())
}

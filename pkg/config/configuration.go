// Copyright 2022 Cerno Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/cernodb/cerno/pkg/common/cerr"
	"github.com/cernodb/cerno/pkg/common/mpool"
	"github.com/cernodb/cerno/pkg/logutil"
)

var (
	defaultBatchRows   = 8192
	defaultMemoryLimit = int64(1 * mpool.GB)
)

// Config is the embedding host facing configuration of the engine.
type Config struct {
	Log    logutil.LogConfig `toml:"log"`
	Engine EngineConfig      `toml:"engine"`
}

type EngineConfig struct {
	// WorkerPoolSize is the number of goroutines evaluating independent
	// projection columns. Default: runtime.NumCPU().
	WorkerPoolSize int `toml:"worker-pool-size"`

	// BatchRows is the row count of a vectorized batch. Default: 8192.
	BatchRows int `toml:"batch-rows"`

	// MemoryLimit caps the bytes a query pool may account. Default: 1GB.
	MemoryLimit int64 `toml:"memory-limit"`
}

// SetDefault fills every zero field with its default.
func (c *Config) SetDefault() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = 512
	}
	if c.Engine.WorkerPoolSize == 0 {
		c.Engine.WorkerPoolSize = runtime.NumCPU()
	}
	if c.Engine.BatchRows == 0 {
		c.Engine.BatchRows = defaultBatchRows
	}
	if c.Engine.MemoryLimit == 0 {
		c.Engine.MemoryLimit = defaultMemoryLimit
	}
}

func (c *Config) validate() error {
	if c.Engine.WorkerPoolSize < 0 {
		return cerr.NewBadConfigNoCtx("worker pool size %d", c.Engine.WorkerPoolSize)
	}
	if c.Engine.BatchRows < 0 {
		return cerr.NewBadConfigNoCtx("batch rows %d", c.Engine.BatchRows)
	}
	if c.Engine.MemoryLimit < 0 {
		return cerr.NewBadConfigNoCtx("memory limit %d", c.Engine.MemoryLimit)
	}
	return nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.SetDefault()
	return c
}

var readFile = os.ReadFile

// LoadConfig parses a toml file and fills defaults for anything the
// file leaves out.
func LoadConfig(path string) (*Config, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, cerr.NewBadConfigNoCtx("read config file %s: %v", path, err)
	}
	c := &Config{}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, cerr.NewBadConfigNoCtx("parse config file %s: %v", path, err)
	}
	c.SetDefault()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

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

package logutil

import (
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogConfig_getter(t *testing.T) {
	tests := []struct {
		name        string
		cfg         LogConfig
		wantLevel   zap.AtomicLevel
		wantEncoder zapcore.Encoder
		entry       zapcore.Entry
	}{
		{
			name:        "console",
			cfg:         LogConfig{Level: "debug", Format: "console"},
			wantLevel:   zap.NewAtomicLevelAt(zap.DebugLevel),
			wantEncoder: getLoggerEncoder("console"),
			entry:       zapcore.Entry{Level: zapcore.DebugLevel, Message: "console msg"},
		},
		{
			name:        "json",
			cfg:         LogConfig{Level: "warn", Format: "json"},
			wantLevel:   zap.NewAtomicLevelAt(zap.WarnLevel),
			wantEncoder: getLoggerEncoder("json"),
			entry:       zapcore.Entry{Level: zapcore.WarnLevel, Message: "json msg"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantLevel, tt.cfg.getLevel())
			require.Equal(t, 2, len(tt.cfg.getOptions()))
			require.Equal(t, getConsoleSyncer(), tt.cfg.getSyncer())
			wantMsg, _ := tt.wantEncoder.EncodeEntry(tt.entry, nil)
			gotMsg, _ := tt.cfg.getEncoder().EncodeEntry(tt.entry, nil)
			require.Equal(t, wantMsg.String(), gotMsg.String())
		})
	}
}

func TestLogConfig_badLevelFallsBack(t *testing.T) {
	cfg := LogConfig{Level: "whatever", Format: "console"}
	require.Equal(t, zap.NewAtomicLevelAt(zap.InfoLevel), cfg.getLevel())
}

func TestLogConfig_fileSyncer(t *testing.T) {
	cfg := LogConfig{
		Level:    "info",
		Format:   "json",
		Filename: t.TempDir() + "/cerno.log",
		MaxSize:  512,
	}
	require.NotEqual(t, getConsoleSyncer(), cfg.getSyncer())
}

func TestSetupCernoLogger(t *testing.T) {
	defer leaktest.AfterTest(t)()
	tests := []struct {
		name string
		conf *LogConfig
	}{
		{
			name: "console",
			conf: &LogConfig{Level: zapcore.DebugLevel.String(), Format: "console"},
		},
		{
			name: "json",
			conf: &LogConfig{Level: zapcore.DebugLevel.String(), Format: "json"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := SetupCernoLogger(tt.conf)
			require.Same(t, logger, GetGlobalLogger())
			logger.Info("setup ok", zap.String("case", tt.name))
		})
	}
}

func TestAdjust(t *testing.T) {
	old := GetGlobalLogger()
	defer replaceGlobalLogger(old)

	stubbed := zap.NewNop()
	replaceGlobalLogger(stubbed)
	require.Same(t, stubbed, Adjust(nil))
	other := zap.NewNop()
	require.Same(t, other, Adjust(other))
}

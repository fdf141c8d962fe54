// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packetd/amqpcore/common"
	"github.com/packetd/amqpcore/confengine"
	"github.com/packetd/amqpcore/internal/sigs"
	"github.com/packetd/amqpcore/logger"
	"github.com/packetd/amqpcore/server"
	"github.com/packetd/amqpcore/transport"
)

var configPath string

var connectCmd = &cobra.Command{
	Use:     "connect",
	Short:   "Dial an AMQP broker, drive the handshake and serve health/metrics endpoints",
	Example: "  amqpcore connect --config amqpcore.yaml",
	RunE:    runConnect,
}

func init() {
	connectCmd.Flags().StringVar(&configPath, "config", "amqpcore.yaml", "configuration file path")
	rootCmd.AddCommand(connectCmd)
}

func runConnect(_ *cobra.Command, _ []string) error {
	conf, err := confengine.LoadConfigPath(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var loggerOpt logger.Options
	if conf.Has("logger") {
		if err := conf.UnpackChild("logger", &loggerOpt); err != nil {
			return fmt.Errorf("unpack logger config: %w", err)
		}
		logger.SetOptions(loggerOpt)
	}

	var tcpConfig transport.Config
	if err := conf.UnpackChild("amqp", &tcpConfig); err != nil {
		return fmt.Errorf("unpack amqp config: %w", err)
	}

	// "extra" is a free-form bag of operator knobs that aren't worth a typed
	// config struct; common.Options coerces each one on demand.
	if conf.Has("extra") {
		raw := make(map[string]any)
		if err := conf.UnpackChild("extra", &raw); err != nil {
			return fmt.Errorf("unpack extra config: %w", err)
		}
		extra := common.Options(raw)
		if verbose, _ := extra.GetBool("verbose"); verbose {
			logger.SetLoggerLevel("debug")
		}
		if tags, _ := extra.GetStringSlice("tags"); len(tags) > 0 {
			logger.Infof("connect: operator tags=%v", tags)
		}
	}

	t, eng, err := transport.Dial(tcpConfig)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}

	eng.AddOnOpenCallback(true, func(_ ...any) {
		logger.Infof("connect: connection to %s:%d/%s established", tcpConfig.Host, tcpConfig.Port, tcpConfig.VHost)
	})
	eng.AddOnCloseCallback(false, func(args ...any) {
		if len(args) > 0 {
			logger.Warnf("connect: connection closed: %v", args[0])
			return
		}
		logger.Warnf("connect: connection closed")
	})

	srv, err := server.New(conf, eng)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	if srv != nil {
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				logger.Errorf("connect: server stopped: %v", err)
			}
		}()
	}

	<-sigs.Terminate()
	logger.Infof("connect: received termination signal, closing connection")

	if err := eng.Close(200, "goodbye"); err != nil {
		logger.Warnf("connect: graceful close failed: %v", err)
	}
	return t.Disconnect()
}

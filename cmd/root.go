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

// Package cmd assembles the amqpcore binary's cobra command tree.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/packetd/amqpcore/common"
	"github.com/packetd/amqpcore/logger"
)

var rootCmd = &cobra.Command{
	Use:   "amqpcore",
	Short: "A sans-I/O AMQP 0-9-1 protocol engine and reference TCP client",
}

// Execute runs the root command. It is the sole entry point called from main.
func Execute() error {
	if _, err := maxprocs.Set(maxprocs.Logger(logger.Infof)); err != nil {
		logger.Warnf("cmd: failed to set GOMAXPROCS: %v", err)
	}
	return rootCmd.Execute()
}

func init() {
	info := common.GetBuildInfo()
	if info.Version == "" {
		info.Version = common.Version // no -ldflags on this build, fall back to the baked-in version
	}
	rootCmd.Version = fmt.Sprintf("%s (%s, built %s)", info.Version, info.GitHash, info.Time)
}

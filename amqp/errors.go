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

package amqp

import "github.com/pkg/errors"

// Sentinel decode/frame errors, wrapped with github.com/pkg/errors so callers
// get a stack trace in logs while still being able to compare against the
// sentinel with errors.Is/errors.Cause.
var (
	ErrShortBuffer   = errors.New("amqp: short buffer")
	ErrBadTag        = errors.New("amqp: unknown field-table tag")
	ErrBadFraming    = errors.New("amqp: frame end marker is not 0xCE")
	ErrUnknownMethod = errors.New("amqp: unknown class/method id")
	ErrFrameTooSmall = errors.New("amqp: negotiated frame-max is too small to fragment content")
	ErrShortStrTooLong = errors.New("amqp: short string exceeds 255 bytes")
)

func newError(format string, args ...any) error {
	return errors.Errorf("amqp: "+format, args...)
}

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

import (
	"fmt"

	"github.com/pkg/errors"
)

// classMethod identifies an AMQP 0-9-1 method by its class and method id,
// the same (class, method) pair that appears on the wire in a Method frame.
type classMethod struct {
	ClassID  uint16
	MethodID uint16
}

const (
	ClassConnection = 10
	ClassChannel    = 20
	ClassExchange   = 40
	ClassQueue      = 50
	ClassBasic      = 60
	ClassTx         = 90
	ClassConfirm    = 85
)

var classNames = map[uint16]string{
	ClassConnection: "connection",
	ClassChannel:    "channel",
	ClassExchange:   "exchange",
	ClassQueue:      "queue",
	ClassBasic:      "basic",
	ClassTx:         "tx",
	ClassConfirm:    "confirm",
}

// classMethodNeedContentHeader lists the methods that are always followed by
// a ContentHeader/ContentBody pair: Basic.Publish, Basic.Return,
// Basic.Deliver and Basic.Get-Ok.
var classMethodNeedContentHeader = map[classMethod]struct{}{
	{ClassID: ClassBasic, MethodID: 40}: {},
	{ClassID: ClassBasic, MethodID: 50}: {},
	{ClassID: ClassBasic, MethodID: 60}: {},
	{ClassID: ClassBasic, MethodID: 71}: {},
}

// NeedsContent reports whether a method carries a following content frame.
func NeedsContent(classID, methodID uint16) bool {
	_, ok := classMethodNeedContentHeader[classMethod{ClassID: classID, MethodID: methodID}]
	return ok
}

// methodCodec knows how to decode the arguments of a single (class, method)
// pair. Each entry is registered in methods.go's init(); encoding goes
// through the type switch in Encode instead of this table.
type methodCodec struct {
	decode func(d *decoder) (MethodArgs, error)
}

var methodRegistry = map[classMethod]methodCodec{}

func registerMethod(classID, methodID uint16, decode func(d *decoder) (MethodArgs, error)) {
	methodRegistry[classMethod{ClassID: classID, MethodID: methodID}] = methodCodec{decode: decode}
}

// DecodeMethodArgs looks up the method registered for (classID, methodID)
// and decodes its argument payload. Returns ErrUnknownMethod for a pair the
// registry has no entry for.
func DecodeMethodArgs(classID, methodID uint16, payload []byte) (MethodArgs, error) {
	codec, ok := methodRegistry[classMethod{ClassID: classID, MethodID: methodID}]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMethod, "class=%d method=%d", classID, methodID)
	}
	return codec.decode(newDecoder(payload))
}

// ClassMethodName returns a "class.method" label such as "basic.publish",
// used for metrics and log messages. Unknown pairs fall back to their
// numeric form.
func ClassMethodName(classID, methodID uint16) string {
	name, ok := methodNames[classMethod{ClassID: classID, MethodID: methodID}]
	if !ok {
		return fmt.Sprintf("%d.%d", classID, methodID)
	}
	return classNames[classID] + "." + name
}

var methodNames = map[classMethod]string{
	{ClassID: ClassConnection, MethodID: 10}: "start",
	{ClassID: ClassConnection, MethodID: 11}: "start-ok",
	{ClassID: ClassConnection, MethodID: 20}: "secure",
	{ClassID: ClassConnection, MethodID: 21}: "secure-ok",
	{ClassID: ClassConnection, MethodID: 30}: "tune",
	{ClassID: ClassConnection, MethodID: 31}: "tune-ok",
	{ClassID: ClassConnection, MethodID: 40}: "open",
	{ClassID: ClassConnection, MethodID: 41}: "open-ok",
	{ClassID: ClassConnection, MethodID: 50}: "close",
	{ClassID: ClassConnection, MethodID: 51}: "close-ok",

	{ClassID: ClassChannel, MethodID: 10}: "open",
	{ClassID: ClassChannel, MethodID: 11}: "open-ok",
	{ClassID: ClassChannel, MethodID: 20}: "flow",
	{ClassID: ClassChannel, MethodID: 21}: "flow-ok",
	{ClassID: ClassChannel, MethodID: 40}: "close",
	{ClassID: ClassChannel, MethodID: 41}: "close-ok",

	{ClassID: ClassExchange, MethodID: 10}: "declare",
	{ClassID: ClassExchange, MethodID: 11}: "declare-ok",
	{ClassID: ClassExchange, MethodID: 20}: "delete",
	{ClassID: ClassExchange, MethodID: 21}: "delete-ok",

	{ClassID: ClassQueue, MethodID: 10}: "declare",
	{ClassID: ClassQueue, MethodID: 11}: "declare-ok",
	{ClassID: ClassQueue, MethodID: 20}: "bind",
	{ClassID: ClassQueue, MethodID: 21}: "bind-ok",
	{ClassID: ClassQueue, MethodID: 30}: "purge",
	{ClassID: ClassQueue, MethodID: 31}: "purge-ok",
	{ClassID: ClassQueue, MethodID: 40}: "delete",
	{ClassID: ClassQueue, MethodID: 41}: "delete-ok",
	{ClassID: ClassQueue, MethodID: 50}: "unbind",
	{ClassID: ClassQueue, MethodID: 51}: "unbind-ok",

	{ClassID: ClassBasic, MethodID: 10}:  "qos",
	{ClassID: ClassBasic, MethodID: 11}:  "qos-ok",
	{ClassID: ClassBasic, MethodID: 20}:  "consume",
	{ClassID: ClassBasic, MethodID: 21}:  "consume-ok",
	{ClassID: ClassBasic, MethodID: 30}:  "cancel",
	{ClassID: ClassBasic, MethodID: 31}:  "cancel-ok",
	{ClassID: ClassBasic, MethodID: 40}:  "publish",
	{ClassID: ClassBasic, MethodID: 50}:  "return",
	{ClassID: ClassBasic, MethodID: 60}:  "deliver",
	{ClassID: ClassBasic, MethodID: 70}:  "get",
	{ClassID: ClassBasic, MethodID: 71}:  "get-ok",
	{ClassID: ClassBasic, MethodID: 72}:  "get-empty",
	{ClassID: ClassBasic, MethodID: 80}:  "ack",
	{ClassID: ClassBasic, MethodID: 90}:  "reject",
	{ClassID: ClassBasic, MethodID: 100}: "recover",
	{ClassID: ClassBasic, MethodID: 101}: "recover-ok",
	{ClassID: ClassBasic, MethodID: 120}: "nack",

	{ClassID: ClassTx, MethodID: 10}: "select",
	{ClassID: ClassTx, MethodID: 11}: "select-ok",
	{ClassID: ClassTx, MethodID: 20}: "commit",
	{ClassID: ClassTx, MethodID: 21}: "commit-ok",
	{ClassID: ClassTx, MethodID: 30}: "rollback",
	{ClassID: ClassTx, MethodID: 31}: "rollback-ok",

	{ClassID: ClassConfirm, MethodID: 10}: "select",
	{ClassID: ClassConfirm, MethodID: 11}: "select-ok",
}

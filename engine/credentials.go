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

package engine

import (
	"github.com/packetd/amqpcore/amqp"
)

// Credentials negotiates an authentication mechanism in response to a
// Connection.Start announcement. ResponseFor returns the SASL mechanism
// name and response blob to send back in Connection.StartOk, or ok=false
// if none of the server's offered mechanisms are supported (yields a
// LoginError).
type Credentials interface {
	ResponseFor(start *amqp.ConnectionStart) (mechanism string, response []byte, ok bool)

	// EraseCredentials is invoked once StartOk has been sent. The default
	// PlainCredentials implementation zeroes its retained password bytes.
	EraseCredentials()
}

// PlainCredentials implements the AMQP PLAIN SASL mechanism:
// "\0username\0password".
type PlainCredentials struct {
	Username string
	password []byte
}

// NewPlainCredentials returns credentials for the PLAIN mechanism.
func NewPlainCredentials(username, password string) *PlainCredentials {
	return &PlainCredentials{Username: username, password: []byte(password)}
}

func (c *PlainCredentials) ResponseFor(start *amqp.ConnectionStart) (string, []byte, bool) {
	if !mechanismOffered(start.Mechanisms, "PLAIN") {
		return "", nil, false
	}
	resp := make([]byte, 0, len(c.Username)+len(c.password)+2)
	resp = append(resp, 0)
	resp = append(resp, c.Username...)
	resp = append(resp, 0)
	resp = append(resp, c.password...)
	return "PLAIN", resp, true
}

func (c *PlainCredentials) EraseCredentials() {
	for i := range c.password {
		c.password[i] = 0
	}
	c.password = nil
}

func mechanismOffered(mechanisms, want string) bool {
	start := 0
	for i := 0; i <= len(mechanisms); i++ {
		if i == len(mechanisms) || mechanisms[i] == ' ' {
			if mechanisms[start:i] == want {
				return true
			}
			start = i + 1
		}
	}
	return false
}

// GuestCredentials is the conventional guest/guest PLAIN login used when
// connecting to a broker's default vhost during development.
func GuestCredentials() *PlainCredentials {
	return NewPlainCredentials("guest", "guest")
}

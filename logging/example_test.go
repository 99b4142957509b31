// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging_test

import (
	"log/slog"
	"os"

	"rivaas.dev/client/logging"
)

func ExampleNew() {
	logger := logging.MustNew(
		logging.WithOutput(os.Stdout),
		logging.WithServiceName("billing-web"),
		logging.WithReplaceAttr(func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}),
	)

	logger.Info("request completed", "method", "GET", "status", 200, "authorization", "Bearer abc")
	// Output:
	// {"level":"INFO","msg":"request completed","service":"billing-web","method":"GET","status":200,"authorization":"***REDACTED***"}
}

// Copyright 2014 The Prometheus Authors
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

package errcapture

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"
)

// multiError joins zero or more errors into one, the same role
// prometheus.MultiError played here before this package was pulled out of
// its original module: a deferred Close error should never silently
// replace the error a caller was already returning.
type multiError []error

func (m multiError) Error() string {
	if len(m) == 1 {
		return m[0].Error()
	}
	parts := make([]string, len(m))
	for i, e := range m {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

func (m multiError) Unwrap() []error { return m }

func appendError(into *error, add error) {
	if add == nil {
		return
	}
	if *into == nil {
		*into = add
		return
	}
	var existing multiError
	if errors.As(*into, &existing) {
		*into = append(existing, add)
		return
	}
	*into = multiError{*into, add}
}

type doFunc func() error

// Do runs doer and, on error, folds the result into *err (appending rather
// than overwriting whatever *err already held — usually the caller's own
// return error).
func Do(err *error, doer doFunc, format string, a ...interface{}) {
	derr := doer()
	if err == nil || derr == nil {
		return
	}

	// For os closers, it's a common case to double close.
	// From reliability purpose this is not a problem it may only indicate surprising execution path.
	if errors.Is(derr, os.ErrClosed) {
		return
	}

	appendError(err, fmt.Errorf(format+": %w", append(a, derr)...))
}

// Close runs c.Close and folds any resulting error into *err via Do. Meant
// for `defer errcapture.Close(&err, c, "closing foo")`.
func Close(err *error, c io.Closer, format string, a ...interface{}) {
	Do(err, c.Close, format, a...)
}

// ExhaustClose closes the io.ReadCloser with error capture but exhausts the reader before.
func ExhaustClose(err *error, r io.ReadCloser, format string, a ...interface{}) {
	_, copyErr := io.Copy(ioutil.Discard, r)

	Do(err, r.Close, format, a...)
	if copyErr == nil {
		return
	}
	appendError(err, copyErr)
}

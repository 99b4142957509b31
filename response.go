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
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"

	rpcerrors "rivaas.dev/client/errors"
)

type bodyKind uint8

const (
	kindText bodyKind = iota
	kindJSON
	kindBinary
	kindMsgpack
	kindProtobuf
)

// Response is the result envelope of one call. After a completed call
// exactly one of Data and Error is meaningful: Error is nil for 2xx
// responses, and Data is nil otherwise. Data may be nil for an empty 2xx
// body.
type Response struct {
	Data   any
	Error  *rpcerrors.HTTPError
	Status int
	// Raw is the transport response. Its body has been read and closed.
	Raw *http.Response

	body []byte
	kind bodyKind
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool { return r.Error == nil }

// Body returns the raw response body.
func (r *Response) Body() []byte { return r.body }

// Decode decodes a success body into v: JSON and msgpack bodies by their
// codec, protobuf bodies into a [proto.Message] (or a pointer to one, which
// is allocated), other bodies into a *[]byte or *string. For a non-2xx
// response it returns the [*errors.HTTPError].
//
// Protobuf payloads need the message type, so Data holds their raw bytes:
//
//	var user pb.User
//	err := resp.Decode(&user)
func (r *Response) Decode(v any) error {
	if r.Error != nil {
		return r.Error
	}
	if len(r.body) == 0 {
		return nil
	}
	switch r.kind {
	case kindJSON:
		return json.Unmarshal(r.body, v)
	case kindMsgpack:
		return msgpack.Unmarshal(r.body, v)
	case kindProtobuf:
		if msg, ok := protoTarget(v); ok {
			return proto.Unmarshal(r.body, msg)
		}
	}
	switch t := v.(type) {
	case *[]byte:
		*t = bytes.Clone(r.body)
	case *string:
		*t = string(r.body)
	default:
		return fmt.Errorf("cannot decode %s body into %T", r.Raw.Header.Get("Content-Type"), v)
	}
	return nil
}

// protoTarget returns the message v decodes into. v is either a message or
// a pointer to a message pointer, as [AwaitAs] passes for T = *pb.User; a
// nil message pointer is replaced with a new message.
func protoTarget(v any) (proto.Message, bool) {
	if msg, ok := v.(proto.Message); ok {
		return msg, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, false
	}
	elem := rv.Elem()
	msg, ok := elem.Interface().(proto.Message)
	if !ok {
		return nil, false
	}
	if elem.Kind() == reflect.Pointer && elem.IsNil() {
		msg = msg.ProtoReflect().New().Interface()
		elem.Set(reflect.ValueOf(msg))
	}
	return msg, true
}

// readResponse drains and closes resp and builds the envelope.
func readResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	r := &Response{
		Status: resp.StatusCode,
		Raw:    resp,
		body:   body,
		kind:   sniff(resp.Header.Get("Content-Type")),
	}
	payload, err := r.parse()
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.Error = rpcerrors.NewHTTPError(resp.StatusCode, payload)
		return r, nil
	}
	r.Data = payload
	return r, nil
}

func (r *Response) parse() (any, error) {
	if len(r.body) == 0 {
		return nil, nil
	}
	switch r.kind {
	case kindJSON:
		var v any
		if err := json.Unmarshal(r.body, &v); err != nil {
			return nil, fmt.Errorf("failed to decode JSON response: %w", err)
		}
		return v, nil
	case kindMsgpack:
		var v any
		if err := msgpack.Unmarshal(r.body, &v); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack response: %w", err)
		}
		return v, nil
	case kindBinary, kindProtobuf:
		return r.body, nil
	default:
		return string(r.body), nil
	}
}

func sniff(contentType string) bodyKind {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return kindJSON
	case mediaType == "application/octet-stream":
		return kindBinary
	case mediaType == "application/msgpack", mediaType == "application/x-msgpack", mediaType == "application/vnd.msgpack":
		return kindMsgpack
	case mediaType == "application/protobuf", mediaType == "application/x-protobuf", mediaType == "application/vnd.google.protobuf":
		return kindProtobuf
	default:
		return kindText
	}
}

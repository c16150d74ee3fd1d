package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goerror"
)

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	*http.Request
}

// GetParam reads a path parameter stored by httprouter.
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetQuery returns the trimmed query value for key.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryInt32 parses the query value for key. A missing value yields 0.
func (r *Request) GetQueryInt32(key string) (int32, error) {
	queryValue := r.GetQuery(key)
	if queryValue == "" {
		return 0, nil
	}

	value, err := strconv.ParseInt(queryValue, 10, 32)
	if err != nil {
		return 0, goerror.NewInvalidFormat("Invalid query " + key)
	}

	return int32(value), nil
}

// DecodeBody decodes exactly one JSON value from the body into dst.
// Unknown fields, trailing data and an empty body are rejected.
func (r *Request) DecodeBody(dst any) error {
	return r.decode(dst, false)
}

// DecodeBodyOptional is DecodeBody but treats an empty body as "{}".
func (r *Request) DecodeBodyOptional(dst any) error {
	return r.decode(dst, true)
}

// DecodeBodyLenient decodes the first JSON value in the body into dst and
// ignores unknown fields. An empty body leaves dst untouched.
func (r *Request) DecodeBodyLenient(dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}

func (r *Request) decode(dst any, allowEmpty bool) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		if allowEmpty {
			return nil
		}
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	dec.UseNumber()

	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}

package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarsuperuser/useradmin/internal/httputil"
)

func recordingWrapper(name string, trace *[]string) RouteWrapper {
	return Wrap(func(next httputil.APIFunc) httputil.APIFunc {
		return func(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
			*trace = append(*trace, name)
			return next(ctx, rw, req, vars)
		}
	})
}

func stopWrapper(err error) RouteWrapper {
	return Wrap(func(next httputil.APIFunc) httputil.APIFunc {
		return func(context.Context, http.ResponseWriter, *http.Request, map[string]string) error {
			return err
		}
	})
}

func serve(t *testing.T, r Route) error {
	t.Helper()
	req := httptest.NewRequest(r.Method(), r.Path(), nil)
	return r.Handler()(req.Context(), httptest.NewRecorder(), req, map[string]string{})
}

func TestNewRoute_WrappersRunInDeclarationOrder(t *testing.T) {
	var trace []string
	handler := func(context.Context, http.ResponseWriter, *http.Request, map[string]string) error {
		trace = append(trace, "handler")
		return nil
	}

	r := NewPostRoute("/user/register", handler,
		recordingWrapper("first", &trace),
		recordingWrapper("second", &trace),
		recordingWrapper("third", &trace),
	)

	require.NoError(t, serve(t, r))
	assert.Equal(t, []string{"first", "second", "third", "handler"}, trace)
	assert.Equal(t, http.MethodPost, r.Method())
	assert.Equal(t, "/user/register", r.Path())
}

func TestNewRoute_ShortCircuitSkipsRest(t *testing.T) {
	var trace []string
	called := false
	handler := func(context.Context, http.ResponseWriter, *http.Request, map[string]string) error {
		called = true
		return nil
	}
	stop := errors.New("stop")

	r := NewGetRoute("/user/", handler,
		recordingWrapper("first", &trace),
		stopWrapper(stop),
		recordingWrapper("never", &trace),
	)

	assert.ErrorIs(t, serve(t, r), stop)
	assert.False(t, called)
	assert.Equal(t, []string{"first"}, trace)
}

func TestVerbHelpers(t *testing.T) {
	noop := func(context.Context, http.ResponseWriter, *http.Request, map[string]string) error { return nil }

	tests := []struct {
		route  Route
		method string
	}{
		{NewGetRoute("/a", noop), http.MethodGet},
		{NewPostRoute("/a", noop), http.MethodPost},
		{NewPutRoute("/a", noop), http.MethodPut},
		{NewPatchRoute("/a", noop), http.MethodPatch},
		{NewDeleteRoute("/a", noop), http.MethodDelete},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.method, tt.route.Method())
		assert.Equal(t, "/a", tt.route.Path())
	}
}

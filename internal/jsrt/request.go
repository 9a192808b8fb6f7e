package jsrt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/robertkrimen/otto"
	"go.uber.org/zap"
)

// ReadyState mirrors XMLHttpRequest.readyState.
type ReadyState int

const (
	Unsent ReadyState = iota
	Opened
	HeadersReceived
	Loading
	Done
)

func (s ReadyState) String() string {
	switch s {
	case Unsent:
		return "UNSENT"
	case Opened:
		return "OPENED"
	case HeadersReceived:
		return "HEADERS_RECEIVED"
	case Loading:
		return "LOADING"
	case Done:
		return "DONE"
	}
	return "ReadyState(" + strconv.Itoa(int(s)) + ")"
}

// Outgoing is a request handed to a Transport.
type Outgoing struct {
	Method string
	URL    string
	Header map[string]string
	Body   string
}

// Response is what a Transport answers.
type Response struct {
	Status     int
	StatusText string
	Header     map[string]string
	Body       string
}

// Transport performs requests for the runtime.
type Transport interface {
	RoundTrip(ctx context.Context, req Outgoing) (Response, error)
}

// ErrNoRoute is returned by StaticTransport for unknown URLs when NotFound
// is false.
var ErrNoRoute = errors.New("no route")

// StaticTransport answers from a fixed table keyed by "METHOD URL" or URL.
type StaticTransport struct {
	Routes map[string]Response
	// NotFound answers unknown URLs with 404 instead of a network error.
	NotFound bool
}

func (s StaticTransport) RoundTrip(_ context.Context, req Outgoing) (Response, error) {
	if resp, ok := s.Routes[req.Method+" "+req.URL]; ok {
		return normalize(resp), nil
	}
	if resp, ok := s.Routes[req.URL]; ok {
		return normalize(resp), nil
	}
	if s.NotFound {
		return normalize(Response{Status: http.StatusNotFound}), nil
	}
	return Response{}, fmt.Errorf("%w for %s %s", ErrNoRoute, req.Method, req.URL)
}

func normalize(resp Response) Response {
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	if resp.StatusText == "" {
		resp.StatusText = http.StatusText(resp.Status)
	}
	return resp
}

// ParseRoute reads "URL=STATUS:BODY" or "URL=BODY" as used on the command
// line.
func ParseRoute(spec string) (string, Response, error) {
	url, rest, ok := strings.Cut(spec, "=")
	if !ok || url == "" {
		return "", Response{}, fmt.Errorf("route %q: want URL=[STATUS:]BODY", spec)
	}
	resp := Response{Body: rest}
	if code, body, ok := strings.Cut(rest, ":"); ok {
		if n, err := strconv.Atoi(code); err == nil && n >= 100 && n <= 599 {
			resp.Status, resp.Body = n, body
		}
	}
	return url, normalize(resp), nil
}

// maxBody bounds response bodies read by HTTPTransport.
const maxBody = 8 << 20

// HTTPTransport performs real requests with net/http.
type HTTPTransport struct {
	Client *http.Client
}

func (h HTTPTransport) RoundTrip(ctx context.Context, req Outgoing) (Response, error) {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return Response{}, err
	}
	for k, v := range req.Header {
		hreq.Header.Set(k, v)
	}
	hresp, err := client.Do(hreq)
	if err != nil {
		return Response{}, err
	}
	defer hresp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(hresp.Body, maxBody))
	if err != nil {
		return Response{}, err
	}
	resp := Response{
		Status:     hresp.StatusCode,
		StatusText: strings.TrimPrefix(hresp.Status, strconv.Itoa(hresp.StatusCode)+" "),
		Header:     make(map[string]string, len(hresp.Header)),
		Body:       string(data),
	}
	for k := range hresp.Header {
		resp.Header[k] = hresp.Header.Get(k)
	}
	return resp, nil
}

// Request is the Go side of one XMLHttpRequest object.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   string

	State        ReadyState
	Status       int
	StatusText   string
	ResponseText string
	// Events lists the dispatched event types in order.
	Events []string

	rt         *Runtime
	obj        *otto.Object
	listeners  listenerSet
	respHeader map[string]string
	sent       bool
	task       int
}

func (r *Runtime) installRequest() error {
	host := r.newObject()
	if err := host.Set("newRequest", func(call otto.FunctionCall) otto.Value {
		req, err := r.newRequest()
		if err != nil {
			r.throw("Error", err.Error())
		}
		return req.obj.Value()
	}); err != nil {
		return err
	}
	return r.vm.Set("__host", host)
}

func (r *Runtime) newRequest() (*Request, error) {
	req := &Request{rt: r, obj: r.newObject(), Header: make(map[string]string)}
	r.requests = append(r.requests, req)
	for i, name := range []string{"UNSENT", "OPENED", "HEADERS_RECEIVED", "LOADING", "DONE"} {
		if err := req.obj.Set(name, i); err != nil {
			return nil, err
		}
	}
	if err := r.addListenerMethods(req.obj, &req.listeners); err != nil {
		return nil, err
	}
	natives := map[string]func(otto.FunctionCall) otto.Value{
		"open": func(call otto.FunctionCall) otto.Value {
			req.open(strings.ToUpper(argString(call, 0)), argString(call, 1))
			return otto.UndefinedValue()
		},
		"setRequestHeader": func(call otto.FunctionCall) otto.Value {
			if req.State != Opened || req.sent {
				r.throw("InvalidStateError", "setRequestHeader: request is not opened")
			}
			req.Header[argString(call, 0)] = argString(call, 1)
			return otto.UndefinedValue()
		},
		"send": func(call otto.FunctionCall) otto.Value {
			if req.State != Opened || req.sent {
				r.throw("InvalidStateError", "send: request is not opened")
			}
			if b := call.Argument(0); !b.IsUndefined() && !b.IsNull() {
				req.Body = b.String()
			}
			req.send()
			return otto.UndefinedValue()
		},
		"abort": func(call otto.FunctionCall) otto.Value {
			req.abort()
			return otto.UndefinedValue()
		},
		"getResponseHeader": func(call otto.FunctionCall) otto.Value {
			if req.State < HeadersReceived {
				return otto.NullValue()
			}
			if v, ok := req.respHeader[strings.ToLower(argString(call, 0))]; ok {
				return r.value(v)
			}
			return otto.NullValue()
		},
		"getAllResponseHeaders": func(call otto.FunctionCall) otto.Value {
			return r.value(req.allHeaders())
		},
	}
	for name, fn := range natives {
		if err := req.obj.Set(name, fn); err != nil {
			return nil, err
		}
	}
	req.sync()
	return req, nil
}

func (q *Request) open(method, url string) {
	if q.sent && q.State != Done {
		q.rt.loop.Cancel(TaskInternal, q.task)
	}
	q.Method, q.URL = method, url
	q.Header = make(map[string]string)
	q.Body = ""
	q.sent = false
	q.reset()
	q.State = Opened
	q.sync()
	q.fire("readystatechange")
}

func (q *Request) reset() {
	q.Status, q.StatusText, q.ResponseText = 0, "", ""
	q.respHeader = nil
}

func (q *Request) send() {
	q.sent = true
	q.fire("loadstart")
	q.task = q.rt.loop.Post(q.complete)
}

// complete performs the round trip on its own loop turn and walks the
// request through the remaining states.
func (q *Request) complete() {
	out := Outgoing{Method: q.Method, URL: q.URL, Header: q.Header, Body: q.Body}
	resp, err := q.rt.opts.Transport.RoundTrip(q.rt.ctx, out)
	if err != nil {
		Logger().Debug("request failed", zap.String("method", q.Method), zap.String("url", q.URL), zap.Error(err))
		q.State = Done
		q.reset()
		q.sync()
		q.fire("readystatechange")
		q.fire("error")
		q.fire("loadend")
		return
	}
	Logger().Debug("request done", zap.String("method", q.Method), zap.String("url", q.URL), zap.Int("status", resp.Status))
	q.Status, q.StatusText = resp.Status, resp.StatusText
	q.respHeader = make(map[string]string, len(resp.Header))
	for k, v := range resp.Header {
		q.respHeader[strings.ToLower(k)] = v
	}
	q.State = HeadersReceived
	q.sync()
	q.fire("readystatechange")
	q.State = Loading
	q.sync()
	q.fire("readystatechange")
	q.ResponseText = resp.Body
	q.State = Done
	q.sync()
	q.fire("readystatechange")
	q.fire("load")
	q.fire("loadend")
}

func (q *Request) abort() {
	if !q.sent || q.State == Done {
		q.State = Unsent
		q.sync()
		return
	}
	q.rt.loop.Cancel(TaskInternal, q.task)
	q.sent = false
	q.reset()
	q.State = Done
	q.sync()
	q.fire("readystatechange")
	q.fire("abort")
	q.fire("loadend")
	q.State = Unsent
	q.sync()
}

func (q *Request) allHeaders() string {
	if q.State < HeadersReceived {
		return ""
	}
	keys := make([]string, 0, len(q.respHeader))
	for k := range q.respHeader {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k + ": " + q.respHeader[k] + "\r\n")
	}
	return b.String()
}

func (q *Request) fire(typ string) {
	q.Events = append(q.Events, typ)
	q.rt.dispatch(q.obj, &q.listeners, typ)
}

// sync copies the state fields onto the JS object.
func (q *Request) sync() {
	fields := map[string]interface{}{
		"readyState":   int(q.State),
		"status":       q.Status,
		"statusText":   q.StatusText,
		"responseText": q.ResponseText,
		"response":     q.ResponseText,
		"responseURL":  "",
	}
	if q.State == Done && q.Status != 0 {
		fields["responseURL"] = q.URL
	}
	for k, v := range fields {
		if err := q.obj.Set(k, v); err != nil {
			Logger().Warn("request state not visible to script", zap.String("field", k), zap.String("url", q.URL), zap.Error(err))
		}
	}
}

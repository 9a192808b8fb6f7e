package jsrt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"mojes/internal/hostapi"
)

func newRuntime(t *testing.T, opts Options) *Runtime {
	t.Helper()
	r, err := New(opts)
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	return r
}

func load(t *testing.T, r *Runtime, src string) {
	t.Helper()
	if err := r.Load("test.js", src); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func drain(t *testing.T, r *Runtime) {
	t.Helper()
	if err := r.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
}

func TestConsoleCapture(t *testing.T) {
	r := newRuntime(t, Options{})
	load(t, r, `console.log("a", 1); console.warn("careful"); alert("hi");`)
	want := "a 1\n[warn] careful\n[alert] hi\n"
	if got := r.ConsoleText(); got != want {
		t.Fatalf("console = %q, want %q", got, want)
	}
	if a := r.Alerts(); len(a) != 1 || a[0] != "hi" {
		t.Fatalf("alerts = %v", a)
	}
}

func TestCallReturnsValue(t *testing.T) {
	r := newRuntime(t, Options{})
	load(t, r, "function add(a, b) {\n    return a + b;\n}")
	v, err := r.Call("add", 5, 3)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if n, _ := v.ToInteger(); n != 8 {
		t.Fatalf("add(5, 3) = %v", v)
	}
}

func TestCheckSyntax(t *testing.T) {
	if err := Check("ok.js", "var x = 1;"); err != nil {
		t.Fatalf("es5 must parse: %v", err)
	}
	err := Check("bad.js", "var x = 1;\nvar f = function ( {")
	if err == nil {
		t.Fatalf("syntax error expected")
	}
	if line, _, ok := SyntaxLocation(err); !ok || line != 2 {
		t.Fatalf("location = line %d (%v), want line 2", line, ok)
	}
}

func TestTimersRunInOrder(t *testing.T) {
	r := newRuntime(t, Options{})
	load(t, r, `
var n = 0;
setTimeout(function () { console.log("late"); }, 1000);
var id = setInterval(function () {
    n += 1;
    console.log("tick " + n);
    if (n === 2) { clearInterval(id); clearInterval(id); }
}, 300);
setTimeout(function (x) { console.log("early " + x); }, 0, "arg");
`)
	drain(t, r)
	want := "early arg\ntick 1\ntick 2\nlate\n"
	if got := r.ConsoleText(); got != want {
		t.Fatalf("console = %q, want %q", got, want)
	}
	if r.Now() != time.Second {
		t.Fatalf("virtual clock = %s", r.Now())
	}
}

func TestDrainTurnLimit(t *testing.T) {
	r := newRuntime(t, Options{MaxTurns: 20})
	load(t, r, `setInterval(function () {}, 10);`)
	err := r.Drain(context.Background())
	if !errors.Is(err, ErrTurnLimit) {
		t.Fatalf("expected ErrTurnLimit, got %v", err)
	}
}

func TestAdvanceStopsAtDeadline(t *testing.T) {
	r := newRuntime(t, Options{})
	load(t, r, `var n = 0; setInterval(function () { n++; }, 100);`)
	if err := r.Advance(context.Background(), 450*time.Millisecond); err != nil {
		t.Fatalf("advance: %v", err)
	}
	v, _ := r.Eval("n")
	if n, _ := v.ToInteger(); n != 4 {
		t.Fatalf("n = %d, want 4", n)
	}
	if r.Now() != 450*time.Millisecond {
		t.Fatalf("clock = %s", r.Now())
	}
}

func TestCallbackErrorsDoNotStopLoop(t *testing.T) {
	r := newRuntime(t, Options{})
	load(t, r, `
setTimeout(function () { undefinedFunction(); }, 0);
setTimeout(function () { console.log("still running"); }, 5);
`)
	drain(t, r)
	if len(r.Errors()) != 1 {
		t.Fatalf("errors = %v", r.Errors())
	}
	if !strings.Contains(r.ConsoleText(), "still running") {
		t.Fatalf("later callbacks must run:\n%s", r.ConsoleText())
	}
}

func TestStorage(t *testing.T) {
	r := newRuntime(t, Options{})
	load(t, r, `
console.log(localStorage.getItem("key") === null);
localStorage.setItem("key", 42);
console.log(localStorage.getItem("key"), localStorage.length);
localStorage.removeItem("key");
sessionStorage.setItem("s", "v");
`)
	if got := r.ConsoleText(); got != "true\n42 1\n" {
		t.Fatalf("console = %q", got)
	}
	if _, ok := r.LocalStorage().Get("key"); ok {
		t.Fatalf("removed key must be gone")
	}
	if v, _ := r.SessionStorage().Get("s"); v != "v" {
		t.Fatalf("session storage = %q", v)
	}
}

func TestLocationAndNavigator(t *testing.T) {
	r := newRuntime(t, Options{Href: "http://localhost:3000/index.html?q=1#top"})
	load(t, r, `
console.log(location.pathname, location.search, location.hash, location.host);
console.log(window.location.href === location.href, navigator.language);
location.reload();
location.assign("/other");
`)
	want := "/index.html ?q=1 #top localhost:3000\ntrue en-US\n"
	if got := r.ConsoleText(); got != want {
		t.Fatalf("console = %q, want %q", got, want)
	}
	if r.Reloads() != 1 {
		t.Fatalf("reloads = %d", r.Reloads())
	}
	if r.Href() != "http://localhost:3000/other" {
		t.Fatalf("href = %q", r.Href())
	}
}

func TestWindowResize(t *testing.T) {
	r := newRuntime(t, Options{Width: 800, Height: 600})
	load(t, r, `
window.addEventListener("resize", function () {
    console.log("Window resized to: " + window.innerWidth + "x" + window.innerHeight);
});
`)
	if err := r.Resize(640, 480); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if got := r.ConsoleText(); got != "Window resized to: 640x480\n" {
		t.Fatalf("console = %q", got)
	}
}

var page = []hostapi.Fixture{
	{Tag: "div", ID: "debugs"},
	{Tag: "p", Text: "Paragraph 1"},
	{Tag: "p", Text: "Paragraph 2"},
	{Tag: "button", ID: "myButton", Text: "Click me"},
	{Tag: "div", ID: "styledElement", Attrs: map[string]string{"style": "background-color: red"}},
	{Tag: "button", Class: "clickable", Text: "One"},
	{Tag: "button", Class: "clickable", Text: "Two"},
	{Tag: "form", Children: []hostapi.Fixture{
		{Tag: "input", Attrs: map[string]string{"name": "name", "value": "John Doe"}},
		{Tag: "input", Attrs: map[string]string{"name": "age", "value": "30"}},
	}},
}

func TestDocumentQueries(t *testing.T) {
	r := newRuntime(t, Options{Fixtures: page})
	load(t, r, `
console.log(document.querySelectorAll("p").length, document.getElementsByClassName("clickable").length);
console.log(document.querySelector("form input").value, document.getElementById("missing") === null);
var el = document.getElementById("styledElement");
console.log(el.style.backgroundColor, getComputedStyle(el).color);
el.style.color = "blue";
el.setAttribute("data-x", "1");
document.getElementById("debugs").insertAdjacentHTML("beforeend", "<p>log</p>");
`)
	want := "2 2\nJohn Doe true\nred rgb(0, 0, 0)\n"
	if got := r.ConsoleText(); got != want {
		t.Fatalf("console = %q, want %q", got, want)
	}
	doc := r.Document()
	el := doc.GetByID("styledElement")
	if el.Style("color") != "blue" {
		t.Fatalf("style color = %q", el.Style("color"))
	}
	if v, _ := el.Attr("data-x"); v != "1" {
		t.Fatalf("data-x = %q", v)
	}
	if got := doc.GetByID("debugs").InnerHTML(); got != "<p>log</p>" {
		t.Fatalf("debugs = %q", got)
	}
}

func TestClickBubblesInOrder(t *testing.T) {
	r := newRuntime(t, Options{Fixtures: page})
	load(t, r, `
var b = document.getElementById("myButton");
b.addEventListener("click", function (e) { console.log("first " + e.target.id); });
b.addEventListener("click", function () { console.log("second"); });
b.onclick = function () { console.log("handler"); };
document.body.addEventListener("click", function () { console.log("body"); });
document.addEventListener("click", function () { console.log("document"); });
`)
	if err := r.Click("#myButton"); err != nil {
		t.Fatalf("click: %v", err)
	}
	want := "first myButton\nsecond\nhandler\nbody\ndocument\n"
	if got := r.ConsoleText(); got != want {
		t.Fatalf("console = %q, want %q", got, want)
	}
	var nf *NoElementError
	if err := r.Click("#nope"); !errors.As(err, &nf) {
		t.Fatalf("expected NoElementError, got %v", err)
	}
}

func TestRemoveEventListener(t *testing.T) {
	r := newRuntime(t, Options{Fixtures: page})
	load(t, r, `
function f() { console.log("f"); }
var b = document.getElementById("myButton");
b.addEventListener("click", f);
b.removeEventListener("click", f);
b.click();
`)
	if got := r.ConsoleText(); got != "" {
		t.Fatalf("removed listener ran: %q", got)
	}
}

func TestRequestListenersAndStates(t *testing.T) {
	r := newRuntime(t, Options{Transport: StaticTransport{Routes: map[string]Response{
		"http://localhost:3000/": {Body: "hello", Header: map[string]string{"Content-Type": "text/plain"}},
	}}})
	load(t, r, `
var xhr = new XMLHttpRequest();
var states = [];
xhr.addEventListener("readystatechange", function () { states.push(xhr.readyState); });
xhr.addEventListener("load", function () { console.log("load1 " + xhr.status + " " + xhr.responseText); });
xhr.addEventListener("load", function () { console.log("load2 " + xhr.getResponseHeader("content-type")); });
xhr.onload = function () { console.log("onload"); };
xhr.open("GET", "http://localhost:3000/");
xhr.send();
console.log("sent " + xhr.readyState);
`)
	drain(t, r)
	want := "sent 1\nload1 200 hello\nload2 text/plain\nonload\n"
	if got := r.ConsoleText(); got != want {
		t.Fatalf("console = %q, want %q", got, want)
	}
	v, _ := r.Eval("states.join(',')")
	if v.String() != "1,2,3,4" {
		t.Fatalf("states = %s", v.String())
	}
	if v, _ := r.Eval("xhr.readyState === XMLHttpRequest.DONE"); v.String() != "true" {
		t.Fatalf("request must end DONE")
	}
}

func TestRequestNoReplay(t *testing.T) {
	r := newRuntime(t, Options{Transport: StaticTransport{NotFound: true}})
	load(t, r, `
var xhr = new XMLHttpRequest();
xhr.open("GET", "/missing");
xhr.send();
`)
	drain(t, r)
	load(t, r, `
xhr.addEventListener("load", function () { console.log("replayed"); });
console.log(xhr.status);
`)
	drain(t, r)
	if got := r.ConsoleText(); got != "404\n" {
		t.Fatalf("console = %q", got)
	}
}

func TestRequestErrorAndAbort(t *testing.T) {
	r := newRuntime(t, Options{})
	load(t, r, `
var a = new XMLHttpRequest();
a.onerror = function () { console.log("error " + a.status); };
a.open("GET", "http://nowhere/");
a.send();
var b = new XMLHttpRequest();
b.addEventListener("abort", function () { console.log("abort " + b.readyState); });
b.addEventListener("load", function () { console.log("b loaded"); });
b.open("GET", "http://nowhere/");
b.send();
b.abort();
console.log("after abort " + b.readyState);
`)
	drain(t, r)
	want := "abort 4\nafter abort 0\nerror 0\n"
	if got := r.ConsoleText(); got != want {
		t.Fatalf("console = %q, want %q", got, want)
	}
	reqs := r.Requests()
	if len(reqs) != 2 || reqs[1].State != Unsent {
		t.Fatalf("requests = %+v", reqs)
	}
}

func TestRequestStateOnFrozenObjectIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	r := newRuntime(t, Options{})
	load(t, r, `
var xhr = new XMLHttpRequest();
Object.freeze(xhr);
xhr.open("GET", "http://localhost:3000/");
`)
	entries := logs.FilterMessage("request state not visible to script").All()
	if len(entries) == 0 {
		t.Fatalf("expected a warning for the frozen request object")
	}
	if url := entries[0].ContextMap()["url"]; url != "http://localhost:3000/" {
		t.Fatalf("url field = %v", url)
	}
}

func TestRequestSendBeforeOpenThrows(t *testing.T) {
	r := newRuntime(t, Options{})
	_, err := r.Eval(`new XMLHttpRequest().send()`)
	if err == nil || !strings.Contains(err.Error(), "InvalidStateError") {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
}

func TestParseRoute(t *testing.T) {
	tests := []struct {
		in     string
		url    string
		status int
		body   string
	}{
		{"http://x/=hello", "http://x/", 200, "hello"},
		{"http://x/a=404:gone", "http://x/a", 404, "gone"},
		{"http://x/b=ok:fine", "http://x/b", 200, "ok:fine"},
	}
	for _, tt := range tests {
		url, resp, err := ParseRoute(tt.in)
		if err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if url != tt.url || resp.Status != tt.status || resp.Body != tt.body {
			t.Errorf("%s: got %s %d %q", tt.in, url, resp.Status, resp.Body)
		}
	}
	if _, _, err := ParseRoute("nourl"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSelectorParsing(t *testing.T) {
	if _, err := parseSelector("div > p"); err == nil {
		t.Fatalf("child combinator is unsupported")
	}
	l, err := parseSelector("button.clickable, #myButton")
	if err != nil || len(l) != 2 {
		t.Fatalf("parse: %v %v", l, err)
	}
}

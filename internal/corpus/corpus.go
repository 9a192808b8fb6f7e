// Package corpus holds the demo page: its annotated functions as IR, the
// markup fixtures they operate on, and the extra buttons that call
// functions with arguments. It doubles as the golden test set.
package corpus

import (
	"mojes/internal/hir"
	"mojes/internal/hostapi"
	"mojes/internal/program"
	"mojes/internal/source"
)

// File is the source file name the demo positions point into.
const File = "demo.rs"

// Title of the demo page.
const Title = "Rust to JavaScript Demo"

// DemoURL is the address the request demo fetches.
const DemoURL = "http://localhost:3000/"

func at(line uint32, fn *hir.Func) *hir.Func {
	fn.Pos = source.Pos{File: File, Line: line, Col: 1}
	return fn
}

var (
	id  = hir.Ident
	str = hir.Str
)

func console(method string, args ...*hir.Expr) *hir.Stmt {
	return hir.Do(hir.Method(id("console"), method, args...))
}

func logf(template string, args ...*hir.Expr) *hir.Stmt {
	return console("log", hir.Ref(hir.Fmt(template, args...)))
}

func printLine(template string, args ...*hir.Expr) *hir.Stmt {
	return hir.Do(hir.CallName("println", hir.Fmt(template, args...)))
}

func listen(target *hir.Expr, event string, handler *hir.Expr) *hir.Stmt {
	return hir.Do(hir.Method(target, "addEventListener", str(event), handler))
}

func fn0(stmts ...*hir.Stmt) *hir.Expr {
	return hir.Closure(nil, hir.Body(stmts...))
}

// Functions returns the demo functions in page order.
func Functions() []*hir.Func {
	return []*hir.Func{
		add(), factorial(), logString(), testFunc(), domExample(), styleExample(),
		eventExample(), timerExample(), navigationExample(), formExample(),
		animationExample(), storageExample(), makeGetRequest(), handleResponse(),
	}
}

// Lookup returns the demo function with the given name.
func Lookup(name string) (*hir.Func, bool) {
	for _, fn := range Functions() {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// Names returns the demo function names in page order.
func Names() []string {
	fns := Functions()
	out := make([]string, len(fns))
	for i, fn := range fns {
		out[i] = fn.Name
	}
	return out
}

func add() *hir.Func {
	return at(11, hir.Fn("add", []hir.Param{hir.P("a", "i32"), hir.P("b", "i32")}, "i32",
		hir.Value(hir.Binary("+", id("a"), id("b")))))
}

func factorial() *hir.Func {
	result, i := id("result"), id("i")
	return at(17, hir.Fn("factorial", []hir.Param{hir.P("n", "i32")}, "i32", hir.Value(result,
		hir.LetMut("result", hir.Int(1)),
		hir.LetMut("i", hir.Int(1)),
		hir.While(hir.Binary("<=", i, id("n")), hir.Body(
			hir.Do(hir.Assign("*=", result, i)),
			hir.Do(hir.Assign("+=", i, hir.Int(1))),
		)),
	)))
}

func logString() *hir.Func {
	return at(30, hir.Fn("log_string", []hir.Param{hir.P("s", "&str")}, "", hir.Body(
		hir.LetMut("elt", hir.Method(hir.Method(id("document"), "getElementById", str("debugs")), "unwrap")),
		hir.Do(hir.Method(id("elt"), "insertAdjacentHTML", str("beforeend"),
			hir.Ref(hir.Fmt("<p>New content: {}</p>", id("s"))))),
	)))
}

func testFunc() *hir.Func {
	return at(37, hir.Fn("testFunc", nil, "", hir.Body(
		hir.Let("element", hir.Method(id("document"), "getElementById", str("test"))),
		hir.Do(hir.CallName("log_string", str("bla"))),
		hir.MatchOption(id("element"), "el",
			hir.Body(
				logf("Found element with id: {}", hir.Field(id("el"), "id")),
				hir.Do(hir.CallName("alert", hir.Ref(hir.Fmt("Test: {} - Element found!", hir.CallName("factorial", hir.Int(6)))))),
			),
			hir.Body(
				console("error", str("Element not found!")),
				hir.Do(hir.CallName("alert", str("Element not found!"))),
			),
		),
	)))
}

func domExample() *hir.Func {
	el := id("element")
	return at(55, hir.Fn("domExample", nil, "", hir.Body(
		hir.Let("newElement", hir.Method(id("document"), "createElement", str("div"))),
		hir.Let("elements", hir.Method(id("document"), "getElementsByTagName", str("p"))),
		hir.ForEnumerate("i", "element", hir.Method(id("elements"), "iter"), hir.Body(
			logf("Element {}: {}, {}", id("i"), hir.Field(el, "tagName"), hir.Field(el, "innerHTML")),
		)),
		hir.For("e", id("elements"), hir.Body(
			printLine("New element: {}: {}", hir.Field(id("e"), "tagName"), hir.Field(id("e"), "innerHTML")),
		)),
		hir.Let("button", hir.Method(id("document"), "querySelector", str("#myButton"))),
		hir.MatchOption(id("button"), "btn",
			hir.Body(
				logf("Button found: {}", hir.Field(id("btn"), "id")),
				listen(id("btn"), "click", fn0(console("log", str("Button clicked!")))),
			),
			hir.Body(console("warn", str("Button not found"))),
		),
	)))
}

func styleExample() *hir.Func {
	return at(87, hir.Fn("styleExample", nil, "", hir.Body(
		hir.Let("element", hir.Method(id("document"), "getElementById", str("styledElement"))),
		hir.MatchOption(id("element"), "el",
			hir.Body(
				hir.Let("styles", hir.Method(id("window"), "getComputedStyle", hir.Ref(id("el")))),
				hir.Do(hir.CallName("log_string", hir.Ref(hir.Fmt("Current color: {}", hir.Field(id("styles"), "color"))))),
				hir.Do(hir.Method(id("el"), "setAttribute", str("style"), str("background: red; fontSize: 20px"))),
			),
			hir.Body(console("error", str("Styled element not found"))),
		),
	)))
}

func eventExample() *hir.Func {
	return at(108, hir.Fn("eventExample", nil, "", hir.Body(
		console("log", str("Event example")),
		hir.Let("elements", hir.Method(id("document"), "querySelectorAll", str(".clickable"))),
		hir.ForEnumerate("index", "element", hir.Method(id("elements"), "iter"), hir.Body(
			logf("Adding event listener to element {}", id("index")),
			listen(id("element"), "click", fn0(
				hir.Do(hir.CallName("alert", str("clicked"))),
				console("log", str("Element clicked!")),
			)),
		)),
		listen(id("window"), "resize", fn0(
			logf("Window resized to: {}x{}",
				hir.Method(id("window"), "innerWidth"),
				hir.Method(id("window"), "innerHeight")),
		)),
	)))
}

func timerExample() *hir.Func {
	return at(131, hir.Fn("timerExample", nil, "", hir.Body(
		console("log", str("Setting up timers...")),
		hir.Let("timeoutId", hir.CallName("setTimeout", fn0(console("log", str("Timeout fired!"))), hir.Int(1000))),
		hir.Let("intervalId", hir.CallName("setInterval", fn0(console("log", str("Interval fired!"))), hir.Int(500))),
		hir.Do(hir.CallName("setTimeout",
			hir.MoveClosure([]string{"timeoutId", "intervalId"}, nil, hir.Body(
				hir.Do(hir.CallName("clearTimeout", id("timeoutId"))),
				hir.Do(hir.CallName("clearInterval", id("intervalId"))),
				console("log", str("Timers cleared")),
			)),
			hir.Int(5000))),
	)))
}

func navigationExample() *hir.Func {
	return at(160, hir.Fn("navigationExample", nil, "", hir.Body(
		logf("Current URL: {}", hir.Field(id("location"), "href")),
		logf("User Agent: {}", hir.Field(id("navigator"), "userAgent")),
		logf("Language: {}", hir.Field(id("navigator"), "language")),
		hir.If(hir.CallName("confirm", str("Do you want to reload the page?")),
			hir.Body(hir.Do(hir.Method(id("location"), "reload"))), nil),
	)))
}

func formExample() *hir.Func {
	return at(172, hir.Fn("formExample", nil, "", hir.Body(
		console("log", str("FORM")),
		hir.Let("form", hir.Method(id("document"), "querySelector", str("form"))),
		hir.MatchOption(id("form"), "f",
			hir.Body(
				hir.Let("inputs", hir.Method(id("f"), "querySelectorAll", str("input"))),
				hir.ForEnumerate("i", "input", hir.Method(id("inputs"), "iter"), hir.Body(
					logf("Input {}: value = '{}'", id("i"), hir.Field(id("input"), "value")),
				)),
			),
			hir.Body(console("log", str("No form found"))),
		),
	)))
}

func animationExample() *hir.Func {
	position := id("position")
	return at(190, hir.Fn("animationExample", nil, "", hir.Body(
		hir.Let("element", hir.Method(id("document"), "getElementById", str("animatedElement"))),
		hir.MatchOption(id("element"), "el",
			hir.Body(
				hir.LetMut("position", hir.Int(0)),
				hir.LetMut("animate", hir.MoveClosure([]string{"position"}, nil, hir.Body(
					hir.Do(hir.Assign("+=", position, hir.Int(1))),
					logf("Animation frame: position = {}", position),
					hir.If(hir.Binary("<", position, hir.Int(100)),
						hir.Body(hir.Do(hir.CallName("requestAnimationFrame",
							fn0(console("log", str("Next animation frame requested")))))),
						hir.Body(console("log", str("Animation complete"))),
					),
				))),
				hir.Do(hir.CallName("requestAnimationFrame", hir.MoveClosure([]string{"animate"}, nil, hir.Body(
					hir.Do(hir.Call(id("animate"))),
				)))),
			),
			hir.Body(console("error", str("Animated element not found"))),
		),
	)))
}

func storageRead(name string) *hir.Stmt {
	return hir.LetMatch(name, hir.OptionMatch(
		hir.Method(id("localStorage"), "getItem", str("key")), "x",
		hir.Body(printLine("Local storage value: {}", id("x"))),
		hir.Body(printLine("Local storage value unset")),
	))
}

func storageExample() *hir.Func {
	return at(222, hir.Fn("storageExample", nil, "", hir.Body(
		console("log", str("Storage operations go here")),
		storageRead("_x"),
		printLine("X"),
		hir.Do(hir.Method(id("localStorage"), "setItem", str("key"), str("value"))),
		printLine("X1"),
		storageRead("_x1"),
	)))
}

func makeGetRequest() *hir.Func {
	xhr := id("xhr")
	lockOf := func(name string) *hir.Expr {
		return hir.Method(hir.Method(id(name), "lock"), "unwrap")
	}
	return at(247, hir.Fn("make_get_request", []hir.Param{hir.P("url", "&str")}, "", hir.Body(
		hir.Let("xhr_orig", hir.NewShared(hir.Call(hir.Path("XMLHttpRequest", "new")))),
		hir.LetMut("xhr", lockOf("xhr_orig")),
		hir.Let("xhr1", hir.Method(id("xhr_orig"), "clone")),
		listen(xhr, "load", hir.MoveClosure([]string{"xhr1"}, nil, hir.Body(
			console("log", hir.Ref(hir.Field(lockOf("xhr1"), "responseText"))),
			console("log", str("Request completed successfully")),
		))),
		listen(xhr, "error", fn0(console("log", str("Request failed")))),
		hir.Let("xhr2", hir.Method(id("xhr_orig"), "clone")),
		listen(xhr, "readystatechange", hir.MoveClosure([]string{"xhr2"}, nil, hir.Body(
			console("log", str("ready state changed")),
			hir.Let("xhr", lockOf("xhr2")),
			logf("Ready state changed: {}", hir.Field(xhr, "readyState")),
			hir.If(hir.Binary("==", hir.Field(xhr, "readyState"), hir.Path("xhr_ready_state", "DONE")),
				hir.Body(hir.If(hir.Binary("==", hir.Field(xhr, "status"), hir.Int(200)),
					hir.Body(logf("Success: {}", hir.Field(xhr, "responseText"))),
					hir.Body(logf("Error: {} {}", hir.Field(xhr, "status"), hir.Field(xhr, "statusText"))),
				)),
				nil),
		))),
		hir.Do(hir.Method(xhr, "open", str("GET"), id("url"))),
		hir.Do(hir.Method(xhr, "setRequestHeader", str("Accept"), str("application/json"))),
		hir.Do(hir.Method(xhr, "send")),
	)))
}

func handleResponse() *hir.Func {
	xhr := id("xhr")
	status := hir.Field(xhr, "status")
	between := func(lo, hi int64) *hir.Expr {
		return hir.Binary("&&", hir.Binary(">=", status, hir.Int(lo)), hir.Binary("<", status, hir.Int(hi)))
	}
	return at(343, hir.Fn("handle_response", []hir.Param{hir.P("xhr", "&XMLHttpRequest")}, "", hir.Body(
		hir.If(between(200, 300),
			hir.Body(
				logf("Response: {}", hir.Field(xhr, "responseText")),
				hir.IfLet(hir.Method(xhr, "getResponseHeader", str("content-type")), "content_type", hir.Body(
					hir.If(hir.Method(id("content_type"), "contains", str("application/json")),
						hir.Body(console("log", str("Received JSON response"))), nil),
				), nil),
			),
			hir.Body(hir.If(between(400, 500),
				hir.Body(logf("Client error: {} {}", status, hir.Field(xhr, "statusText"))),
				hir.Body(hir.If(hir.Binary(">=", status, hir.Int(500)),
					hir.Body(logf("Server error: {} {}", status, hir.Field(xhr, "statusText"))),
					hir.Body(logf("Unexpected status: {} {}", status, hir.Field(xhr, "statusText"))),
				)),
			)),
		),
	)))
}

// Fixtures returns the page elements the demo functions look up.
func Fixtures() []hostapi.Fixture {
	input := func(label, typ, name, value string) hostapi.Fixture {
		return hostapi.Fixture{Tag: "label", Text: label, Children: []hostapi.Fixture{
			{Tag: "input", Attrs: map[string]string{"type": typ, "name": name, "value": value}},
		}}
	}
	clickable := func(text string) hostapi.Fixture {
		return hostapi.Fixture{Tag: "button", Class: "clickable", Text: text}
	}
	return []hostapi.Fixture{
		{Tag: "div", ID: "debugs", Attrs: map[string]string{"style": "width:100%; height: 100px; border:solid 1px; overflow: auto;"}},
		{Tag: "div", ID: "test", Text: "Test Element"},
		{Tag: "p", Text: "Paragraph 1"},
		{Tag: "p", Text: "Paragraph 2"},
		{Tag: "p", Text: "Paragraph 3"},
		{Tag: "button", ID: "myButton", Text: "Target Button", Attrs: map[string]string{"onclick": "console.log('Button clicked directly!')"}},
		{Tag: "div", ID: "styledElement", Text: "Styled Element"},
		clickable("Clickable 1"),
		clickable("Clickable 2"),
		clickable("Clickable 3"),
		{Tag: "div", ID: "animatedElement"},
		{Tag: "form", Children: []hostapi.Fixture{
			input("Name: ", "text", "name", "John Doe"),
			input("Email: ", "email", "email", "john@example.com"),
			input("Age: ", "number", "age", "30"),
		}},
	}
}

// Buttons returns the page buttons for functions that take arguments.
func Buttons() []program.Button {
	return []program.Button{
		program.CallButton("Test Add Function", "console.log('Simple calculation: ' + add(5, 3))"),
		program.CallButton("Test Factorial", "console.log('Factorial of 5: ' + factorial(5))"),
		program.CallButton("Test XHR (see console)", "make_get_request('"+DemoURL+"')"),
	}
}

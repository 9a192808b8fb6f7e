package hostapi

func object(name, kind string) Entry {
	return Entry{Name: name, Kind: KindObject, Returns: kind}
}

func function(name string) Entry {
	return Entry{Name: name, Kind: KindFunction}
}

func method(recv, name, returns string) Entry {
	return Entry{Receiver: recv, Name: name, Kind: KindMethod, Returns: returns}
}

func property(recv, name, returns string) Entry {
	return Entry{Receiver: recv, Name: name, Kind: KindProperty, Returns: returns}
}

func methods(recv string, names ...string) []Entry {
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		out = append(out, method(recv, n, ""))
	}
	return out
}

func properties(recv string, names ...string) []Entry {
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		out = append(out, property(recv, n, ""))
	}
	return out
}

var defaultRows = concat(
	[]Entry{
		object("document", RecvDocument),
		object("window", RecvWindow),
		object("console", RecvConsole),
		object("localStorage", RecvStorage),
		object("sessionStorage", RecvStorage),
		object("location", RecvLocation),
		object("navigator", RecvNavigator),
		object("XMLHttpRequest", RecvRequest),

		function("alert"),
		function("confirm"),
		function("prompt"),
		function("setTimeout"),
		function("setInterval"),
		function("clearTimeout"),
		function("clearInterval"),
		function("requestAnimationFrame"),
		function("cancelAnimationFrame"),
		{Name: "println", Kind: KindFunction, JS: "console.log"},
		{Name: "eprintln", Kind: KindFunction, JS: "console.error"},

		method(RecvDocument, "getElementById", RecvElement),
		method(RecvDocument, "querySelector", RecvElement),
		method(RecvDocument, "querySelectorAll", RecvNodeList),
		method(RecvDocument, "getElementsByTagName", RecvNodeList),
		method(RecvDocument, "getElementsByClassName", RecvNodeList),
		method(RecvDocument, "createElement", RecvElement),
		method(RecvDocument, "addEventListener", ""),
		property(RecvDocument, "body", RecvElement),
		property(RecvDocument, "title", ""),

		method(RecvWindow, "getComputedStyle", RecvStyle),
		property(RecvWindow, "location", RecvLocation),

		method(RecvElement, "querySelector", RecvElement),
		method(RecvElement, "querySelectorAll", RecvNodeList),
		method(RecvElement, "appendChild", RecvElement),

		{Receiver: RecvRequest, Name: "send_with_body", Kind: KindMethod, JS: "send"},

		{Receiver: "XMLHttpRequest", Name: "new", Kind: KindConstructor, JS: "XMLHttpRequest", Returns: RecvRequest},
		{Receiver: "xhr_ready_state", Name: "UNSENT", Kind: KindConstant, JS: "XMLHttpRequest.UNSENT"},
		{Receiver: "xhr_ready_state", Name: "OPENED", Kind: KindConstant, JS: "XMLHttpRequest.OPENED"},
		{Receiver: "xhr_ready_state", Name: "HEADERS_RECEIVED", Kind: KindConstant, JS: "XMLHttpRequest.HEADERS_RECEIVED"},
		{Receiver: "xhr_ready_state", Name: "LOADING", Kind: KindConstant, JS: "XMLHttpRequest.LOADING"},
		{Receiver: "xhr_ready_state", Name: "DONE", Kind: KindConstant, JS: "XMLHttpRequest.DONE"},
	},
	methods(RecvWindow, "addEventListener", "removeEventListener", "scrollTo", "open"),
	properties(RecvWindow, "innerWidth", "innerHeight", "devicePixelRatio"),
	methods(RecvConsole, "log", "warn", "error", "info", "debug"),
	methods(RecvStorage, "getItem", "setItem", "removeItem", "clear"),
	methods(RecvLocation, "reload", "assign", "replace"),
	properties(RecvLocation, "href", "pathname", "host", "hash"),
	properties(RecvNavigator, "userAgent", "language", "platform"),
	methods(RecvElement, "addEventListener", "removeEventListener", "setAttribute", "getAttribute",
		"removeAttribute", "insertAdjacentHTML", "focus", "blur", "click", "remove"),
	methods(RecvStyle, "getPropertyValue"),
	methods(RecvRequest, "open", "send", "setRequestHeader", "addEventListener", "abort",
		"getResponseHeader", "getAllResponseHeaders"),
	methods(RecvEvent, "preventDefault", "stopPropagation"),
)

func concat(groups ...[]Entry) []Entry {
	var out []Entry
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

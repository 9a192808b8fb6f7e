// Package shim describes the target side of primitives that have no native
// JavaScript equivalent: the shared-mutable cell, the sequence helper used by
// for-each loops, the value copy behind clone, and how source-compatibility
// methods lower.
//
// The cell is a one-field object. lock (alias acquire) returns the inner
// value by reference and never blocks: generated programs run on a single
// cooperative event loop. Cloning a handle copies the reference, so every
// clone observes the same inner value.
package shim

import "strings"

const (
	// CellConstructor constructs a shared-mutable cell.
	CellConstructor = "Mutex"
	// CellAcquire is the method that returns the inner value.
	CellAcquire = "lock"
	// CellAcquireAlias is the second spelling of CellAcquire.
	CellAcquireAlias = "acquire"
	// CellField holds the inner value; assignments through a guard write it.
	CellField = "inner"
	// SeqHelper turns an array-like host collection into an array.
	SeqHelper = "__mojes.seq"
	// CloneHelper copies arrays and plain objects one level deep; cells,
	// host objects and primitives come back as they are.
	CloneHelper = "__mojes.clone"
)

const preludeES5 = `function Mutex(inner) {
    this.inner = inner;
}
Mutex.prototype.lock = function () {
    return this.inner;
};
Mutex.prototype.acquire = Mutex.prototype.lock;
var __mojes = {
    seq: function (xs) {
        if (xs === null || xs === undefined) {
            return [];
        }
        if (Array.isArray(xs)) {
            return xs;
        }
        var out = [];
        for (var i = 0; i < xs.length; i++) {
            out.push(xs[i]);
        }
        return out;
    },
    clone: function (x) {
        if (x === null || typeof x !== "object" || x instanceof Mutex) {
            return x;
        }
        if (Array.isArray(x)) {
            return x.slice();
        }
        if (Object.getPrototypeOf(x) !== Object.prototype) {
            return x;
        }
        var out = {};
        for (var k in x) {
            if (Object.prototype.hasOwnProperty.call(x, k)) {
                out[k] = x[k];
            }
        }
        return out;
    }
};`

const preludeES2015 = `class Mutex {
    constructor(inner) {
        this.inner = inner;
    }

    lock() {
        return this.inner;
    }

    acquire() {
        return this.inner;
    }
}
const __mojes = {
    seq(xs) {
        if (xs === null || xs === undefined) {
            return [];
        }
        return Array.isArray(xs) ? xs : Array.from(xs);
    },

    clone(x) {
        if (x === null || typeof x !== "object" || x instanceof Mutex) {
            return x;
        }
        if (Array.isArray(x)) {
            return x.slice();
        }
        return Object.getPrototypeOf(x) === Object.prototype ? Object.assign({}, x) : x;
    },
};`

// Prelude returns the runtime helpers for a dialect ("es5" or "es2015").
func Prelude(dialect string) string {
	if strings.EqualFold(dialect, "es5") {
		return preludeES5
	}
	return preludeES2015
}

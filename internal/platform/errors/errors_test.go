package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeConfig, http.StatusBadRequest},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeFetch, http.StatusBadGateway},
		{ErrorCodeParse, http.StatusBadGateway},
		{ErrorCodeNotify, http.StatusBadGateway},
		{ErrorCodePublish, http.StatusBadGateway},
		{ErrorCodeItemParse, http.StatusInternalServerError},
		{ErrorCodeCoercion, http.StatusInternalServerError},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError}, // default branch
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorCodeString(t *testing.T) {
	cases := map[ErrorCode]string{
		ErrorCodeUnknown:   "unknown",
		ErrorCodeFetch:     "fetch",
		ErrorCodeItemParse: "item_parse",
		ErrorCodePublish:   "publish",
		ErrorCode(9999):    "code_9999",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Fatalf("String(%d) = %q, want %q", uint16(code), got, want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeParse, "bad page %d", 12)
	if got := e2.Error(); got != "bad page 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeDB, "db failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	e4 := Wrapf(src, ErrorCodeFetch, "GET %s", "flights")
	if want := "GET flights: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}

	if got, ok := As(e4); !ok || got.Code() != ErrorCodeFetch {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	// copy-on-write mutators
	e5 := Wrap(src, ErrorCodeCoercion, "oops")
	e6 := WithField(e5, "temp")
	e7 := WithOp(e6, "normalize")
	if fe, ok := As(e6); !ok || fe.Field() != "temp" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "normalize" {
		t.Fatalf("WithOp failed")
	}
	if fe0, _ := As(e5); fe0.Field() != "" || fe0.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}
	if WithField(src, "x") != src || WithOp(src, "x") != src {
		t.Fatalf("mutators must pass foreign errors through")
	}

	// Wire
	w := WireFrom(e7)
	if w.Code != ErrorCodeCoercion || w.Kind != "coercion" || w.Field != "temp" || w.Op != "normalize" || w.Message != "oops: root" {
		t.Fatalf("WireFrom(ours) mismatch: %+v", w)
	}
	if wf := WireFrom(nil); wf != (Wire{}) {
		t.Fatalf("WireFrom(nil) expected zero, got %+v", wf)
	}
	if wf := WireFrom(src); wf.Code != ErrorCodeUnknown || wf.Message != "root" {
		t.Fatalf("WireFrom(foreign) mismatch: %+v", wf)
	}

	if st, _ := HTTP(nil); st != http.StatusOK {
		t.Fatalf("HTTP(nil) status = %d", st)
	}
	if st, w := HTTP(Publishf("sink down")); st != http.StatusBadGateway || w.Kind != "publish" {
		t.Fatalf("HTTP(publish) = %d %+v", st, w)
	}

	// sugar
	if !IsCode(NotFoundf("x"), ErrorCodeNotFound) ||
		!IsCode(InvalidArgf("x"), ErrorCodeInvalidArgument) ||
		!IsCode(Unavailablef("x"), ErrorCodeUnavailable) ||
		!IsCode(PanicErrf("x"), ErrorCodePanic) ||
		!IsCode(Internalf("x"), ErrorCodeUnknown) ||
		!IsCode(Configf("x"), ErrorCodeConfig) ||
		!IsCode(Fetchf("x"), ErrorCodeFetch) ||
		!IsCode(Parsef("x"), ErrorCodeParse) ||
		!IsCode(ItemParsef("x"), ErrorCodeItemParse) ||
		!IsCode(Coercionf("x"), ErrorCodeCoercion) ||
		!IsCode(Notifyf("x"), ErrorCodeNotify) ||
		!IsCode(Publishf("x"), ErrorCodePublish) {
		t.Fatalf("sugar helpers code mismatch")
	}

	if WrapIf(nil, ErrorCodeDB, "ignored") != nil {
		t.Fatalf("WrapIf(nil) should return nil")
	}
	if WrapIf(src, ErrorCodeDB, "db") == nil {
		t.Fatalf("WrapIf(non-nil) should wrap")
	}

	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))
	if got := Root(deep); got == nil || got.Error() != "root" {
		t.Fatalf("Root() failed, got %v", got)
	}

	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatalf("ErrNotFound code mismatch")
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unavailable code", Unavailablef("upstream 503"), true},
		{"rate limited", Newf(ErrorCodeTooManyRequests, "429"), true},
		{"parse", Parsef("garbage"), false},
		{"wrapped pg deadlock", Wrap(pg("40P01", "", ""), ErrorCodePublish, "insert"), true},
		{"plain", stderrs.New("nope"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Retryable(c.err); got != c.want {
				t.Fatalf("Retryable(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}

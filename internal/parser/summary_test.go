package parser

import "testing"

func TestSummarizeFullHead(t *testing.T) {
	obj := map[string]any{
		"module":  "billing",
		"feature": "invoice",
		"type":    "audit",
		"status":  "ok",
		"message": "invoice sent",
	}
	want := "billing • invoice • audit • ok — invoice sent"
	if got := Summarize(obj); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSummarizeKeyFallbacks(t *testing.T) {
	cases := []struct {
		obj  map[string]any
		want string
	}{
		// service stands in for module, action for feature.
		{map[string]any{"service": "payments", "action": "refund"}, "payments • refund"},
		// numeric status is rendered as digits.
		{map[string]any{"statusCode": float64(404), "message": "not found"}, "404 — not found"},
		// msg and text are message aliases.
		{map[string]any{"msg": "short form"}, "short form"},
		{map[string]any{"text": "plain text form"}, "plain text form"},
	}
	for _, c := range cases {
		if got := Summarize(c.obj); got != c.want {
			t.Errorf("Summarize(%v) = %q, want %q", c.obj, got, c.want)
		}
	}
}

func TestSummarizeTypeEqualMessageSuppressed(t *testing.T) {
	obj := map[string]any{"type": "Error", "message": "error"}
	if got := Summarize(obj); got != "error" {
		t.Errorf("expected type suppressed, got %q", got)
	}

	// A distinct type stays.
	obj = map[string]any{"type": "timeout", "message": "error"}
	if got := Summarize(obj); got != "timeout — error" {
		t.Errorf("expected type kept, got %q", got)
	}
}

func TestSummarizeSkipsUnusableValues(t *testing.T) {
	obj := map[string]any{
		"module":  nil, // null: fall through to service
		"service": "api",
		"message": "", // empty: fall through to msg
		"msg":     "degraded",
		"status":  map[string]any{"code": 500.0}, // composite: unusable
	}
	if got := Summarize(obj); got != "api — degraded" {
		t.Errorf("expected %q, got %q", "api — degraded", got)
	}
}

func TestSummarizeEmptyObject(t *testing.T) {
	if got := Summarize(map[string]any{}); got != fallbackMessage {
		t.Errorf("expected %q, got %q", fallbackMessage, got)
	}
}

func TestSummarizeHeadOnly(t *testing.T) {
	obj := map[string]any{"module": "auth"}
	if got := Summarize(obj); got != "auth" {
		t.Errorf("expected %q, got %q", "auth", got)
	}
}

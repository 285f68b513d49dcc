package parser

import "testing"

func TestExtractObjectSimple(t *testing.T) {
	obj, start, end, ok := ExtractObject(`before {"key":"value"} after`)
	if !ok {
		t.Fatal("expected a match")
	}
	if start != 7 || end != 22 {
		t.Errorf("unexpected span: [%d,%d)", start, end)
	}
	if obj["key"] != "value" {
		t.Errorf("unexpected object: %v", obj)
	}
}

func TestExtractObjectBraceInsideString(t *testing.T) {
	obj, _, _, ok := ExtractObject(`x {"msg":"has } brace"} y`)
	if !ok {
		t.Fatal("expected a match")
	}
	if obj["msg"] != "has } brace" {
		t.Errorf("unexpected object: %v", obj)
	}
}

func TestExtractObjectEscapedQuote(t *testing.T) {
	obj, _, _, ok := ExtractObject(`x {"a":"q\"}b"} y`)
	if !ok {
		t.Fatal("expected a match")
	}
	if obj["a"] != `q"}b` {
		t.Errorf("unexpected object: %v", obj)
	}
}

func TestExtractObjectNested(t *testing.T) {
	obj, _, end, ok := ExtractObject(`{"outer":{"inner":2}} tail`)
	if !ok {
		t.Fatal("expected a match")
	}
	if end != 21 {
		t.Errorf("expected span to cover the outer object, end=%d", end)
	}
	inner, ok := obj["outer"].(map[string]any)
	if !ok || inner["inner"] != float64(2) {
		t.Errorf("unexpected object: %v", obj)
	}
}

func TestExtractObjectUnbalanced(t *testing.T) {
	if _, _, _, ok := ExtractObject(`start {"a":1 end`); ok {
		t.Error("expected no match for an unbalanced span")
	}
}

func TestExtractObjectInvalidJSON(t *testing.T) {
	if _, _, _, ok := ExtractObject("use {curly} braces"); ok {
		t.Error("expected no match for a non-JSON span")
	}
}

func TestExtractObjectOnlyFirstSpanTried(t *testing.T) {
	// The first balanced span is not valid JSON; a later valid object is
	// never considered.
	if _, _, _, ok := ExtractObject(`bad {oops} then {"k":"v"}`); ok {
		t.Error("expected no match when the first span fails to parse")
	}
}

func TestExtractObjectNoBrace(t *testing.T) {
	if _, _, _, ok := ExtractObject("nothing structured here"); ok {
		t.Error("expected no match")
	}
}

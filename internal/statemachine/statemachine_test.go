package statemachine

import (
	"testing"

	"github.com/vroomgo/vroom/internal/vrerrors"
)

func TestQuotedFieldQuoteTransitionsToQuotedEnd(t *testing.T) {
	tr := Step(QuotedField, Quote)
	if tr.Next != QuotedEnd {
		t.Fatalf("got %v", tr.Next)
	}
}

func TestQuotedEndQuoteIsDoubledEscape(t *testing.T) {
	tr := Step(QuotedEnd, Quote)
	if tr.Next != QuotedField {
		t.Fatalf("expected doubled-quote to return to QuotedField, got %v", tr.Next)
	}
}

func TestQuotedEndDelimiterEmitsSeparator(t *testing.T) {
	tr := Step(QuotedEnd, Delimiter)
	if tr.Next != FieldStart || !tr.EmitsSeparator {
		t.Fatalf("got %+v", tr)
	}
}

func TestQuotedEndNewlineEmitsSeparator(t *testing.T) {
	tr := Step(QuotedEnd, Newline)
	if tr.Next != RecordStart || !tr.EmitsSeparator {
		t.Fatalf("got %+v", tr)
	}
}

func TestQuotedEndOtherIsInvalidEscape(t *testing.T) {
	tr := Step(QuotedEnd, Other)
	if tr.Next != UnquotedField || tr.ErrorCode != vrerrors.InvalidQuoteEscape || tr.ErrorSeverity != vrerrors.Recoverable {
		t.Fatalf("got %+v", tr)
	}
}

func TestUnquotedFieldQuoteIsRecoverable(t *testing.T) {
	tr := Step(UnquotedField, Quote)
	if tr.ErrorCode != vrerrors.QuoteInUnquotedField || tr.ErrorSeverity != vrerrors.Recoverable {
		t.Fatalf("got %+v", tr)
	}
	if tr.Next != UnquotedField {
		t.Fatalf("expected to remain in UnquotedField, got %v", tr.Next)
	}
}

func TestEscapedAlwaysReturnsToQuotedField(t *testing.T) {
	for c := Class(0); c < numClasses; c++ {
		tr := Step(Escaped, c)
		if tr.Next != QuotedField {
			t.Fatalf("class %d: got %v, want QuotedField", c, tr.Next)
		}
	}
}

func TestClassOfDoubleQuoteModeIgnoresEscapeByte(t *testing.T) {
	c := ClassOf('\\', ',', '"', '\\', true)
	if c != Other {
		t.Fatalf("expected Other in double-quote mode, got %v", c)
	}
}

func TestClassOfEscapeMode(t *testing.T) {
	c := ClassOf('\\', ',', '"', '\\', false)
	if c != Escape {
		t.Fatalf("expected Escape, got %v", c)
	}
}

package translator

import (
	"strings"
	"testing"

	"github.com/ivylang/ivy/internal/analyzer"
	"github.com/ivylang/ivy/internal/lexer"
	"github.com/ivylang/ivy/internal/parser"
	"github.com/ivylang/ivy/internal/token"
)

func translate(t *testing.T, source string) string {
	t.Helper()
	src, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := analyzer.Analyze(src); err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	return Translate(src)
}

func TestTranslateClassShape(t *testing.T) {
	out := translate(t, `
		LET count: Integer = 0;

		DEF main(): Integer DO
			print(count);
			RETURN 0;
		END
	`)
	if !strings.HasPrefix(out, "class Main {\n") {
		t.Fatalf("output must open with the Main class shape, got:\n%s", out)
	}
	if !strings.Contains(out, "    int count = 0;\n") {
		t.Errorf("expected a 4-space-indented field, got:\n%s", out)
	}
	if !strings.Contains(out, "    public static void main(String[] args) {\n") {
		t.Errorf("expected the fixed Java entry-point wrapper, got:\n%s", out)
	}
	if !strings.Contains(out, "        System.exit(new Main().main());\n") {
		t.Errorf("expected the entry point to delegate to an instance main(), got:\n%s", out)
	}
	if !strings.Contains(out, "    int main() {\n") {
		t.Errorf("expected the user's own main to remain an ordinary method with its declared return type, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("output must close the class, got:\n%s", out)
	}
}

func TestTranslateControlFlow(t *testing.T) {
	out := translate(t, `
		DEF main(): Integer DO
			LET i = 0;
			WHILE i < 3 DO
				IF i == 1 DO
					print(i);
				ELSE
					print(i);
				END
				i = i + 1;
			END
			FOR j IN range(0, 2) DO
				print(j);
			END
			RETURN 0;
		END
	`)
	for _, want := range []string{
		"while (i < 3) {",
		"if (i == 1) {",
		"} else {",
		"for (int j : Range.of(0, 2)) {",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestTranslateLogicalOperators(t *testing.T) {
	out := translate(t, `
		DEF main(): Integer DO
			IF TRUE AND FALSE DO
				print("x");
			END
			IF TRUE OR FALSE DO
				print("y");
			END
			RETURN 0;
		END
	`)
	if !strings.Contains(out, "true && false") {
		t.Errorf("expected AND to render as &&, got:\n%s", out)
	}
	if !strings.Contains(out, "true || false") {
		t.Errorf("expected OR to render as ||, got:\n%s", out)
	}
}

// TestLiteralRoundTrip implements spec §8's round-trip property: for
// every literal kind, translating it to host text and re-lexing that
// text produces a token of the kind the Ivy lexer itself would assign
// to an equivalent literal.
func TestLiteralRoundTrip(t *testing.T) {
	cases := []struct {
		source   string
		wantKind token.Kind
	}{
		{`LET a = 42;`, token.INTEGER},
		{`LET a = -7;`, token.INTEGER},
		{`LET a = 1.5;`, token.DECIMAL},
		{`LET a = 'x';`, token.CHARACTER},
		{`LET a = '\n';`, token.CHARACTER},
		{`LET a = "hi\nthere";`, token.STRING},
		{`LET a = "quote: \"x\"";`, token.STRING},
	}

	for _, c := range cases {
		src, err := parser.Parse(c.source + "\nDEF main(): Integer DO RETURN 0; END")
		if err != nil {
			t.Fatalf("parse error for %q: %v", c.source, err)
		}
		if _, err := analyzer.Analyze(src); err != nil {
			t.Fatalf("analyze error for %q: %v", c.source, err)
		}
		tr := &translator{}
		rendered := tr.translateExpr(src.Fields[0].Value)

		tokens, err := lexer.Tokenize(rendered)
		if err != nil {
			t.Fatalf("re-lexing %q (from %q) failed: %v", rendered, c.source, err)
		}
		if len(tokens) != 1 {
			t.Fatalf("re-lexing %q produced %d tokens, want 1", rendered, len(tokens))
		}
		if tokens[0].Kind != c.wantKind {
			t.Errorf("re-lexing %q gave kind %s, want %s", rendered, tokens[0].Kind, c.wantKind)
		}
	}
}

func TestTranslateNilLiteral(t *testing.T) {
	out := translate(t, `
		LET a = NIL;
		DEF main(): Integer DO
			RETURN 0;
		END
	`)
	if !strings.Contains(out, "Object a = null;") {
		t.Errorf("expected NIL to render as null, got:\n%s", out)
	}
}

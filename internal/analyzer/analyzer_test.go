package analyzer

import (
	"testing"

	"github.com/ivylang/ivy/internal/ast"
	"github.com/ivylang/ivy/internal/parser"
	"github.com/ivylang/ivy/internal/types"
)

func parseAndAnalyze(t *testing.T, source string) *ast.Source {
	t.Helper()
	src, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := Analyze(src); err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	return src
}

func TestAnalyzeInfersFieldType(t *testing.T) {
	src := parseAndAnalyze(t, `
		LET x = 1;
		DEF main(): Integer DO
			RETURN 0;
		END
	`)
	if src.Fields[0].Variable.Type != types.Integer {
		t.Errorf("expected Integer, got %s", src.Fields[0].Variable.Type)
	}
}

func TestAnalyzeRejectsTypeMismatch(t *testing.T) {
	_, err := Analyze(mustParse(t, `LET x: Integer = "hi";`))
	if err == nil {
		t.Fatal("expected a type error assigning a String to an Integer field")
	}
}

func TestAnalyzeRejectsMissingTypeInfo(t *testing.T) {
	_, err := Analyze(mustParse(t, `LET x;`))
	if err == nil {
		t.Fatal("expected an error for a field with neither type nor initializer")
	}
}

func TestAnalyzeComparableAssignment(t *testing.T) {
	parseAndAnalyze(t, `
		LET x: Comparable = 1;
		DEF main(): Integer DO
			RETURN 0;
		END
	`)
	parseAndAnalyze(t, `
		LET x: Comparable = "hi";
		DEF main(): Integer DO
			RETURN 0;
		END
	`)
}

func TestAnalyzeMethodsAndRecursion(t *testing.T) {
	src := parseAndAnalyze(t, `
		DEF even(n: Integer): Boolean DO
			IF n == 0 DO
				RETURN TRUE;
			END
			RETURN odd(n - 1);
		END

		DEF odd(n: Integer): Boolean DO
			IF n == 0 DO
				RETURN FALSE;
			END
			RETURN even(n - 1);
		END

		DEF main(): Integer DO
			RETURN 0;
		END
	`)
	if src.Methods[0].Function.ReturnType != types.Boolean {
		t.Errorf("even's return type = %s", src.Methods[0].Function.ReturnType)
	}
}

func TestAnalyzeRejectsUndefinedFunction(t *testing.T) {
	_, err := Analyze(mustParse(t, `
		DEF f() DO
			missing(1);
		END
	`))
	if err == nil {
		t.Fatal("expected an error calling an undefined function")
	}
}

func TestAnalyzeRejectsBadBinaryOperands(t *testing.T) {
	_, err := Analyze(mustParse(t, `
		DEF f() DO
			print(1 + 1.0);
		END

		DEF main(): Integer DO
			RETURN 0;
		END
	`))
	if err == nil {
		t.Fatal("expected an error mixing Integer and Decimal in +")
	}
}

func TestAnalyzeRejectsExpressionStatementNotACall(t *testing.T) {
	_, err := Analyze(mustParse(t, `
		DEF f() DO
			1 + 2;
		END
	`))
	if err == nil {
		t.Fatal("expected an error for a non-call expression statement")
	}
}

func TestAnalyzeRejectsEmptyForBody(t *testing.T) {
	_, err := Analyze(mustParse(t, `
		DEF f() DO
			FOR i IN range(0, 1) DO
			END
		END
	`))
	if err == nil {
		t.Fatal("expected an error for an empty FOR body")
	}
}

func TestAnalyzeForOverRange(t *testing.T) {
	parseAndAnalyze(t, `
		DEF f() DO
			FOR i IN range(0, 3) DO
				print(i);
			END
		END

		DEF main(): Integer DO
			RETURN 0;
		END
	`)
}

func TestAnalyzeRejectsMissingMain(t *testing.T) {
	_, err := Analyze(mustParse(t, `LET x = 1;`))
	if err == nil {
		t.Fatal("expected an error for a source with no main/0")
	}
}

func TestAnalyzeRejectsMainWithWrongReturnType(t *testing.T) {
	_, err := Analyze(mustParse(t, `
		DEF main() DO
		END
	`))
	if err == nil {
		t.Fatal("expected an error for a main that does not return Integer")
	}
}

func TestAnalyzeIntegerLiteralBounds(t *testing.T) {
	_, err := Analyze(mustParse(t, `LET x = 99999999999;`))
	if err == nil {
		t.Fatal("expected an error for an out-of-range Integer literal")
	}
}

func mustParse(t *testing.T, source string) *ast.Source {
	t.Helper()
	src, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return src
}

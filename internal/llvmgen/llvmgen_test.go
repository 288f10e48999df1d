package llvmgen

import (
	"strings"
	"testing"

	"github.com/ivylang/ivy/internal/analyzer"
	"github.com/ivylang/ivy/internal/ast"
	"github.com/ivylang/ivy/internal/parser"
)

func generate(t *testing.T, source string) string {
	t.Helper()
	src, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := analyzer.Analyze(src); err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	m, err := Generate(src)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	return m.String()
}

func TestGenerateRecursiveFunction(t *testing.T) {
	ir := generate(t, `
		DEF factorial(n: Integer): Integer DO
			IF n == 0 DO
				RETURN 1;
			END
			RETURN n * factorial(n - 1);
		END

		DEF main(): Integer DO
			RETURN factorial(5);
		END
	`)
	if !strings.Contains(ir, "define i64 @factorial(i64 %n)") {
		t.Errorf("expected a factorial function definition, got:\n%s", ir)
	}
	if !strings.Contains(ir, "call i64 @factorial") {
		t.Errorf("expected a recursive call, got:\n%s", ir)
	}
}

func TestGenerateLoopAndPrint(t *testing.T) {
	ir := generate(t, `
		DEF main(): Integer DO
			FOR i IN range(0, 3) DO
				print(i);
			END
			RETURN 0;
		END
	`)
	if !strings.Contains(ir, "declare i32 @printf") {
		t.Errorf("expected a printf declaration, got:\n%s", ir)
	}
	if !strings.Contains(ir, "for.cond") || !strings.Contains(ir, "for.body") {
		t.Errorf("expected a for-range loop's basic blocks, got:\n%s", ir)
	}
}

func TestGenerateRejectsNonRangeIterable(t *testing.T) {
	// env.go only ever defines one IntegerIterable-producing builtin
	// (range), so this case cannot arise from valid Ivy source today,
	// but genForRange's guard is exercised directly here for safety.
	src, err := parser.Parse(`
		DEF main(): Integer DO
			FOR i IN range(0, 1) DO
				print(i);
			END
			RETURN 0;
		END
	`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := analyzer.Analyze(src); err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	forStmt := src.Methods[0].Body[0].(*ast.For)
	forStmt.Iterable = &ast.Literal{Value: nil}
	if _, err := Generate(src); err == nil {
		t.Fatal("expected Generate to reject a FOR over a non-range iterable")
	}
}

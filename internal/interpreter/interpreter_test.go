package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ivylang/ivy/internal/analyzer"
	"github.com/ivylang/ivy/internal/parser"
)

func run(t *testing.T, source string) string {
	t.Helper()
	src, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := analyzer.Analyze(src); err != nil {
		t.Fatalf("analyze error: %v", err)
	}

	var buf bytes.Buffer
	old := Stdout
	Stdout = &buf
	defer func() { Stdout = old }()

	if err := Run(src); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	return buf.String()
}

func TestRunPrintsFieldValue(t *testing.T) {
	out := run(t, `
		LET greeting = "hello";

		DEF main(): Integer DO
			print(greeting);
			RETURN 0;
		END
	`)
	if out != "hello\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestRunArithmeticAndDivision(t *testing.T) {
	out := run(t, `
		DEF main(): Integer DO
			print(7 / 2);
			print(7.0 / 2.0);
			RETURN 0;
		END
	`)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 || lines[0] != "3" {
		t.Fatalf("output = %v", lines)
	}
}

func TestRunDivisionByZero(t *testing.T) {
	src, err := parser.Parse(`
		DEF main(): Integer DO
			print(1 / 0);
			RETURN 0;
		END
	`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := analyzer.Analyze(src); err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	if err := Run(src); err == nil {
		t.Fatal("expected a division-by-zero runtime error")
	}
}

func TestRunRecursion(t *testing.T) {
	out := run(t, `
		DEF factorial(n: Integer): Integer DO
			IF n == 0 DO
				RETURN 1;
			END
			RETURN n * factorial(n - 1);
		END

		DEF main(): Integer DO
			print(factorial(5));
			RETURN 0;
		END
	`)
	if strings.TrimRight(out, "\n") != "120" {
		t.Fatalf("output = %q", out)
	}
}

func TestRunForLoopOverRange(t *testing.T) {
	out := run(t, `
		DEF main(): Integer DO
			FOR i IN range(0, 3) DO
				print(i);
			END
			RETURN 0;
		END
	`)
	if strings.TrimRight(out, "\n") != "0\n1\n2" {
		t.Fatalf("output = %q", out)
	}
}

func TestRunWhileLoopAndAssignment(t *testing.T) {
	out := run(t, `
		DEF main(): Integer DO
			LET i = 0;
			WHILE i < 3 DO
				print(i);
				i = i + 1;
			END
			RETURN 0;
		END
	`)
	if strings.TrimRight(out, "\n") != "0\n1\n2" {
		t.Fatalf("output = %q", out)
	}
}

func TestRunShortCircuitAnd(t *testing.T) {
	out := run(t, `
		DEF explode(): Boolean DO
			print("should not run");
			RETURN TRUE;
		END

		DEF main(): Integer DO
			IF FALSE AND explode() DO
				print("unreachable");
			END
			print("done");
			RETURN 0;
		END
	`)
	if strings.TrimRight(out, "\n") != "done" {
		t.Fatalf("output = %q, short-circuit AND must skip the right operand", out)
	}
}

func TestRunToStringMethod(t *testing.T) {
	out := run(t, `
		DEF main(): Integer DO
			print(42.toString());
			RETURN 0;
		END
	`)
	if strings.TrimRight(out, "\n") != "42" {
		t.Fatalf("output = %q", out)
	}
}

func TestRunMainReturnsExitCode(t *testing.T) {
	src, err := parser.Parse(`
		DEF main(): Integer DO
			RETURN 7;
		END
	`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := analyzer.Analyze(src); err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	code, err := RunMain(src)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if code != 7 {
		t.Fatalf("exit code = %d, want 7", code)
	}
}

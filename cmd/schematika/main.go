// Command schematika is the REPL/batch driver for the schematika
// expression language. Grounded on cmd/smog/main.go's subcommand
// dispatch and runREPL/evalREPL shape, adapted from smog's
// parse-compile-run bytecode pipeline to schematika's parse-and-run
// tree-walking one: there is no separate compile stage, so the
// `compile`/`disassemble` subcommands have no schematika analogue and are
// dropped.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/lang"
	"github.com/rconybea/schematika/pkg/lexer"
	"github.com/rconybea/schematika/pkg/token"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		runREPL()
		return
	}

	switch os.Args[1] {
	case "version", "-v", "--version":
		fmt.Printf("schematika version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	case "repl", "interactive":
		runREPL()
	case "run", "batch":
		if len(os.Args) < 3 {
			fmt.Println("Error: no file specified")
			printUsage()
			os.Exit(1)
		}
		runFile(os.Args[2])
	default:
		runFile(os.Args[1])
	}
}

func printUsage() {
	fmt.Println("schematika - a statically-typed expression language")
	fmt.Println("\nUsage:")
	fmt.Println("  schematika                 Start interactive REPL")
	fmt.Println("  schematika [file]          Run a .schema source file")
	fmt.Println("  schematika run [file]      Run a .schema source file")
	fmt.Println("  schematika batch [file]    Run a file in batch mode (def-only top level)")
	fmt.Println("  schematika repl            Start interactive REPL")
	fmt.Println("  schematika version         Show version")
	fmt.Println("  schematika help            Show this help")
}

// runFile reads and evaluates an entire source file under a batch session
// (§4.3.1's begin_batch_session): only `def` forms are legal at top
// level, matching a program file rather than an interactive transcript.
func runFile(filename string) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	sess := lang.NewBatchSession()
	if err := evalAll(sess, string(data)); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// evalAll lexes src to EOF, feeding every token through sess; any parse or
// runtime error aborts immediately.
func evalAll(sess *lang.Session, src string) error {
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		eof := tok.Type == token.EOF
		_, err, _ := sess.EvalToken(tok, eof)
		if err != nil {
			return err
		}
		if eof {
			return nil
		}
	}
}

// runREPL starts an interactive read-eval-print loop. A persistent Session
// carries the reader's parser/global-symbol state and the VM's global
// environment across inputs, so earlier defines remain visible to later
// ones (§4.3.1's begin_interactive_session, §4.3.2 recursive top-level
// define).
func runREPL() {
	fmt.Printf("schematika REPL v%s\n", version)
	fmt.Println("Type ':help' for help, ':quit' or ':exit' to exit")
	fmt.Println()

	sess := lang.NewInteractiveSession()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("schematika> ")
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		switch line {
		case ":quit", ":exit":
			fmt.Println("Goodbye!")
			return
		case ":help":
			printREPLHelp()
			continue
		case "":
			continue
		}

		evalREPLLine(sess, line)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
	}
}

// evalREPLLine feeds one line of input (plus a synthetic EOF) through sess
// and prints either the resulting value or the error. A line that leaves
// the reader mid-expression (no trailing ';' yet, an open '{', ...) resets
// to idle and reports a syntax error rather than silently buffering —
// schematika's incremental reader can in principle span lines, but a
// single-line REPL loop has no natural place to keep prompting for a
// continuation, so each line is expected to be self-contained.
func evalREPLLine(sess *lang.Session, line string) {
	l := lexer.New(line)
	var lastErr error

	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	var value ast.Value
	for i, tok := range toks {
		eof := i == len(toks)-1
		v, err, done := sess.EvalToken(tok, eof)
		if err != nil {
			lastErr = err
			break
		}
		if done {
			value = v
		}
	}

	if lastErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", lastErr)
		sess.Reader.ResetToIdleToplevel()
		return
	}
	if value != nil {
		fmt.Printf("=> %v\n", value)
	}
}

func printREPLHelp() {
	fmt.Println("schematika REPL Help")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  :help     Show this help message")
	fmt.Println("  :quit     Exit the REPL")
	fmt.Println("  :exit     Exit the REPL")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  - Enter schematika expressions terminated by ';' and press Enter")
	fmt.Println("  - Top-level defines persist across inputs")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  schematika> def pi = 3.14;")
	fmt.Println("  => 3.14")
	fmt.Println("  schematika> pi * 2.0;")
	fmt.Println("  => 6.28")
	fmt.Println()
}

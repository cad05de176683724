package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/nmduc/minirel/internal/config"
	"github.com/nmduc/minirel/internal/engine"
	"github.com/nmduc/minirel/internal/record"
	"github.com/nmduc/minirel/internal/sql"
)

// ---- History (own file) ----

type History struct {
	path  string
	lines []string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

func (h *History) Load(max int) error {
	if h.path == "" {
		return nil
	}
	f, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		h.lines = append(h.lines, s)
		if max > 0 && len(h.lines) > max {
			h.lines = h.lines[len(h.lines)-max:]
		}
	}
	return sc.Err()
}

func (h *History) Append(stmt string) error {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" || h.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintln(f, stmt); err != nil {
		return err
	}
	h.lines = append(h.lines, stmt)
	return nil
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".minirel_history"
	}
	return filepath.Join(home, ".minirel_history")
}

// printResult renders a ResultSet as a column-aligned table, or a
// "(0 rows)" line when the result set is empty.
func printResult(rs record.ResultSet) {
	if len(rs.Records) == 0 {
		fmt.Printf("(0 rows)\n")
		return
	}

	cols := columnNames(rs.Records[0])

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	rows := make([][]string, len(rs.Records))
	for r, rec := range rs.Records {
		row := make([]string, len(cols))
		for i, fv := range rec.Fields {
			row[i] = formatValue(fv)
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
		rows[r] = row
	}

	printRow := func(values []string) {
		for i := range cols {
			if i > 0 {
				fmt.Print(" | ")
			}
			fmt.Print(padRight(values[i], widths[i]))
		}
		fmt.Println()
	}

	printRow(cols)
	for i := range cols {
		if i > 0 {
			fmt.Print("-+-")
		}
		fmt.Print(strings.Repeat("-", widths[i]))
	}
	fmt.Println()
	for _, row := range rows {
		printRow(row)
	}
	fmt.Printf("(%d rows)\n", len(rs.Records))
}

func columnNames(rec record.Record) []string {
	names := make([]string, len(rec.Fields))
	for i, fv := range rec.Fields {
		names[i] = fv.Name
	}
	return names
}

func formatValue(fv record.FieldValue) string {
	switch fv.Type {
	case record.TypeInteger:
		return fmt.Sprintf("%d", fv.IntValue)
	case record.TypeString:
		return fv.StringValue
	default:
		return "?"
	}
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func main() {
	var (
		dataDir  = flag.String("data", ".", "data directory")
		cfgPath  = flag.String("config", "minirel.yaml", "config file path")
		histPath = flag.String("history", defaultHistoryPath(), "history file path")
		histMax  = flag.Int("history-max", 2000, "max history lines loaded into memory")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "." {
		cfg.DataDir = *dataDir
	}

	db := engine.Open(cfg.DataDir, cfg.NumBuffer)
	defer func() { _ = db.Close() }()

	h := NewHistory(*histPath)
	_ = h.Load(*histMax)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "minirel> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	for _, line := range h.lines {
		_ = rl.SaveHistory(line)
	}

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println("^C")
			continue
		}
		if err != nil {
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		_ = h.Append(line)
		_ = rl.SaveHistory(line)

		stmt, err := sql.Parse(line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if _, ok := stmt.(*sql.QuitStmt); ok {
			return
		}

		rs, err := sql.Execute(db, stmt)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if _, ok := stmt.(*sql.SelectStmt); ok {
			printResult(rs)
		} else {
			fmt.Println("OK")
		}
	}
}
